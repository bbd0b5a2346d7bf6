package types

// JobRequirementSet is the structured keyword set derived from a job
// description. Derivation happens elsewhere; scoring only consumes it.
type JobRequirementSet struct {
	RequiredSkills []string `json:"required_skills,omitempty" mapstructure:"required_skills"`
	OptionalSkills []string `json:"optional_skills,omitempty" mapstructure:"optional_skills"`
	ToolKeywords   []string `json:"tool_keywords,omitempty" mapstructure:"tool_keywords"`
}

// IsEmpty reports whether no category holds any keyword.
func (r *JobRequirementSet) IsEmpty() bool {
	return r == nil || len(r.RequiredSkills)+len(r.OptionalSkills)+len(r.ToolKeywords) == 0
}
