package types

import (
	"github.com/go-playground/validator/v10"
)

// AppendVersionRequest commits a new snapshot to a resume's history.
type AppendVersionRequest struct {
	Snapshot        *ResumeDocument `json:"snapshot" validate:"required"`
	ParentVersionID string          `json:"parent_version_id,omitempty"`
	ChangeSummary   string          `json:"change_summary,omitempty" validate:"max=500"`
}

// SetCurrentRequest moves a resume's current pointer.
type SetCurrentRequest struct {
	VersionID string `json:"version_id" validate:"required"`
}

// DiffRequest compares two ad-hoc documents that are not stored as versions.
type DiffRequest struct {
	Before       *ResumeDocument    `json:"before" validate:"required"`
	After        *ResumeDocument    `json:"after" validate:"required"`
	Requirements *JobRequirementSet `json:"requirements,omitempty"`
}

// ScoreRequest scores a document against a requirement set.
type ScoreRequest struct {
	Resume       *ResumeDocument    `json:"resume" validate:"required"`
	Requirements *JobRequirementSet `json:"requirements" validate:"required"`
}

// CompareRequest optionally carries a requirement set so a version
// comparison can include before/after ATS scores.
type CompareRequest struct {
	Requirements *JobRequirementSet `json:"requirements,omitempty"`
}

var validate = validator.New()

// Validate validates the AppendVersionRequest using the validator.
func (r *AppendVersionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SetCurrentRequest using the validator.
func (r *SetCurrentRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DiffRequest using the validator.
func (r *DiffRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}
