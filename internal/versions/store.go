// Package versions keeps the append-only history of resume snapshots and
// each resume's current pointer.
package versions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// CurrentSummary replaces the change summary of a version that was
// addressed as "current".
const CurrentSummary = "Current version"

// Store persists resume versions. Append and SetCurrent are serialized per
// resume; calls for different resumes never wait on each other. Returned
// versions are copies the caller may modify.
type Store interface {
	// Append records snapshot as the next version of resumeID and makes it
	// current. An empty parentVersionID means the current version.
	Append(ctx context.Context, resumeID string, snapshot *types.ResumeDocument, parentVersionID, changeSummary string) (*types.ResumeVersion, error)
	Get(ctx context.Context, resumeID, versionID string) (*types.ResumeVersion, error)
	// List returns version metadata ordered by version number.
	List(ctx context.Context, resumeID string) ([]types.VersionMeta, error)
	GetCurrent(ctx context.Context, resumeID string) (*types.ResumeVersion, error)
	SetCurrent(ctx context.Context, resumeID, versionID string) error
	// Step moves the current pointer delta version numbers and returns the
	// new current version. Reading and moving the pointer is one atomic
	// operation with respect to Append and other steps.
	Step(ctx context.Context, resumeID string, delta int) (*types.ResumeVersion, error)
	Close() error
}

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an unknown resume or version.
type NotFoundError struct {
	// Kind is "resume", "version", "previous version" or "next version".
	Kind      string
	ResumeID  string
	VersionID string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.VersionID != "":
		return fmt.Sprintf("version %q of resume %q not found", e.VersionID, e.ResumeID)
	case e.Kind == "" || e.Kind == "resume":
		return fmt.Sprintf("resume %q not found", e.ResumeID)
	default:
		return fmt.Sprintf("no %s of resume %q", e.Kind, e.ResumeID)
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func resumeNotFound(resumeID string) error {
	return &NotFoundError{Kind: "resume", ResumeID: resumeID}
}

func versionNotFound(resumeID, versionID string) error {
	return &NotFoundError{Kind: "version", ResumeID: resumeID, VersionID: versionID}
}

// InputError reports a request the store cannot act on.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CheckResumeID rejects blank resume ids. Store implementations call it
// before touching storage.
func CheckResumeID(resumeID string) error {
	if strings.TrimSpace(resumeID) == "" {
		return &InputError{Field: "resume_id", Message: "must not be empty"}
	}
	return nil
}

// Resolve fetches versionID, treating types.CurrentVersionID as the
// resume's current version at call time.
func Resolve(ctx context.Context, s Store, resumeID, versionID string) (*types.ResumeVersion, error) {
	if versionID == types.CurrentVersionID {
		return s.GetCurrent(ctx, resumeID)
	}
	return s.Get(ctx, resumeID, versionID)
}

// Compare resolves the two versions to diff. An empty other means current.
// A side addressed as current is relabelled with the pseudo id and
// CurrentSummary so callers can tell it apart from a pinned version.
func Compare(ctx context.Context, s Store, resumeID, versionID, other string) (*types.ResumeVersion, *types.ResumeVersion, error) {
	if other == "" {
		other = types.CurrentVersionID
	}
	first, err := resolveLabelled(ctx, s, resumeID, versionID)
	if err != nil {
		return nil, nil, err
	}
	second, err := resolveLabelled(ctx, s, resumeID, other)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func resolveLabelled(ctx context.Context, s Store, resumeID, versionID string) (*types.ResumeVersion, error) {
	v, err := Resolve(ctx, s, resumeID, versionID)
	if err != nil {
		return nil, err
	}
	if versionID == types.CurrentVersionID {
		v.VersionID = types.CurrentVersionID
		v.ChangeSummary = CurrentSummary
	}
	return v, nil
}

// NoAdjacentVersion reports a step past either end of a resume's history.
func NoAdjacentVersion(resumeID string, delta int) error {
	kind := "next version"
	if delta < 0 {
		kind = "previous version"
	}
	return &NotFoundError{Kind: kind, ResumeID: resumeID}
}

// Undo moves the current pointer to the version numbered one below it.
func Undo(ctx context.Context, s Store, resumeID string) (*types.ResumeVersion, error) {
	return s.Step(ctx, resumeID, -1)
}

// Redo moves the current pointer to the version numbered one above it.
func Redo(ctx context.Context, s Store, resumeID string) (*types.ResumeVersion, error) {
	return s.Step(ctx, resumeID, 1)
}

func cloneVersion(v *types.ResumeVersion) *types.ResumeVersion {
	out := *v
	out.Snapshot = v.Snapshot.Clone()
	return &out
}
