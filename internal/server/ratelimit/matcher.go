package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the first config whose method and pattern match the
// request, or nil. Patterns match segment by segment so "/resumes/*/undo"
// matches "/resumes/r1/undo" but not "/resumes/r1/versions/undo".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)
	for i := range configs {
		config := &configs[i]
		if config.Method != "*" && config.Method != method {
			continue
		}
		if matchSegments(splitPath(config.Pattern), segments) {
			return config
		}
	}
	return nil
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != segments[i] {
			return false
		}
	}
	return true
}
