package types

import "time"

// CurrentVersionID is the pseudo version id that resolves to a resume's
// current pointer at call time.
const CurrentVersionID = "current"

// ResumeVersion is an immutable snapshot in a resume's history
type ResumeVersion struct {
	VersionID       string         `json:"version_id"`
	ResumeID        string         `json:"resume_id"`
	VersionNumber   int            `json:"version_number"`
	ParentVersionID string         `json:"parent_version_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	ChangeSummary   string         `json:"change_summary"`
	Snapshot        ResumeDocument `json:"snapshot"`
}

// VersionMeta is a ResumeVersion without its snapshot, used for listings
type VersionMeta struct {
	VersionID       string    `json:"version_id"`
	ResumeID        string    `json:"resume_id"`
	VersionNumber   int       `json:"version_number"`
	ParentVersionID string    `json:"parent_version_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ChangeSummary   string    `json:"change_summary"`
	IsCurrent       bool      `json:"is_current"`
}

// Meta strips the snapshot from the version.
func (v *ResumeVersion) Meta() VersionMeta {
	return VersionMeta{
		VersionID:       v.VersionID,
		ResumeID:        v.ResumeID,
		VersionNumber:   v.VersionNumber,
		ParentVersionID: v.ParentVersionID,
		CreatedAt:       v.CreatedAt,
		ChangeSummary:   v.ChangeSummary,
	}
}
