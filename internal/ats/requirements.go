package ats

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// RequirementsError represents a requirement payload that cannot be decoded
type RequirementsError struct {
	Message string
	Cause   error
}

func (e *RequirementsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid requirements: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid requirements: %s", e.Message)
}

func (e *RequirementsError) Unwrap() error {
	return e.Cause
}

// legacyRequirements accepts the older keyword payload that used "tools"
// instead of "tool_keywords".
type legacyRequirements struct {
	RequiredSkills []string `mapstructure:"required_skills"`
	OptionalSkills []string `mapstructure:"optional_skills"`
	ToolKeywords   []string `mapstructure:"tool_keywords"`
	Tools          []string `mapstructure:"tools"`
}

// ParseRequirements decodes a loosely-typed requirement payload as produced by
// JSON decoding into any. Accepted forms:
//
//   - a list of strings, treated as required skills
//   - an object with required_skills, optional_skills and tool_keywords (or tools)
func ParseRequirements(raw any) (*types.JobRequirementSet, error) {
	switch v := raw.(type) {
	case nil:
		return &types.JobRequirementSet{}, nil
	case []string:
		return &types.JobRequirementSet{RequiredSkills: v}, nil
	case []any:
		var skills []string
		if err := mapstructure.Decode(v, &skills); err != nil {
			return nil, &RequirementsError{Message: "keyword list must contain only strings", Cause: err}
		}
		return &types.JobRequirementSet{RequiredSkills: skills}, nil
	case map[string]any:
		var legacy legacyRequirements
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &legacy,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, &RequirementsError{Message: "failed to create decoder", Cause: err}
		}
		if err := decoder.Decode(v); err != nil {
			return nil, &RequirementsError{Message: "unexpected requirement object", Cause: err}
		}
		return &types.JobRequirementSet{
			RequiredSkills: legacy.RequiredSkills,
			OptionalSkills: legacy.OptionalSkills,
			ToolKeywords:   append(legacy.ToolKeywords, legacy.Tools...),
		}, nil
	default:
		return nil, &RequirementsError{Message: fmt.Sprintf("unsupported payload type %T", raw)}
	}
}
