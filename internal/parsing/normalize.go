package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skillNormalizations maps common skill name variants to canonical display names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"aws":        "AWS",
	"gcp":        "GCP",
}

// keywordAliases maps a canonical keyword to the variants recruiters and
// candidates commonly write instead. Matching happens on token-normalized forms.
var keywordAliases = map[string][]string{
	"spring boot":             {"springboot", "spring-boot"},
	"microservices":           {"micro-services", "micro services", "microservice"},
	"postgresql":              {"postgres", "psql"},
	"javascript":              {"js", "ecmascript"},
	"typescript":              {"ts"},
	"react":                   {"reactjs", "react.js"},
	"node.js":                 {"nodejs", "node"},
	"golang":                  {"go lang"},
	"machine learning":        {"ml"},
	"artificial intelligence": {"ai"},
	"kubernetes":              {"k8s", "kube"},
	"amazon web services":     {"aws"},
	"microsoft azure":         {"azure"},
	"google cloud platform":   {"gcp", "google cloud"},
	"graphql":                 {"graph ql", "gql"},
	"mongodb":                 {"mongo"},
	"mysql":                   {"my sql"},
	"continuous integration":  {"ci"},
	"ci/cd":                   {"cicd", "ci cd"},
}

// canonicalTerms maps every normalized alias (and canonical form) to the
// normalized canonical form.
var canonicalTerms = buildCanonicalTerms()

func buildCanonicalTerms() map[string]string {
	out := make(map[string]string)
	for canonical, variants := range keywordAliases {
		c := NormalizeText(canonical)
		out[c] = c
		for _, v := range variants {
			out[NormalizeText(v)] = c
		}
	}
	return out
}

// CanonicalTerm returns the canonical normalized form of a keyword phrase and
// whether an alias entry was found. Phrases without an entry are returned
// normalized but otherwise unchanged.
func CanonicalTerm(phrase string) (string, bool) {
	normalized := NormalizeText(phrase)
	if c, ok := canonicalTerms[normalized]; ok {
		return c, true
	}
	return normalized, false
}

// NormalizeSkillName normalizes a skill name to its canonical display form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Multi-word or mixed-case names are kept as written
	if strings.Contains(normalized, " ") || (normalized != lower && normalized != strings.ToUpper(normalized)) {
		return normalized
	}

	// Single words in one case get a leading capital
	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}

// SkillKey returns the comparison key for an item of a set section
// (skills, languages, awards): case-insensitive with variants folded.
func SkillKey(item string) string {
	return strings.ToLower(NormalizeSkillName(item))
}

// NormalizeSkills returns skills in canonical display form with empty and
// duplicate entries removed. First occurrence wins.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return skills
	}

	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		name := NormalizeSkillName(s)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
