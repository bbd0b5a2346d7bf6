package versions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// resumeLog is one resume's history. versions[i] has version number i+1 and
// current indexes into versions.
type resumeLog struct {
	mu       sync.Mutex
	versions []types.ResumeVersion
	byID     map[string]int
	current  int
}

// MemoryStore is an in-process Store. Each resume has its own lock, and the
// map of resumes is guarded separately so resumes never contend.
type MemoryStore struct {
	mu    sync.RWMutex
	logs  map[string]*resumeLog
	now   func() time.Time
	newID func() string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:  make(map[string]*resumeLog),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *MemoryStore) log(resumeID string, create bool) *resumeLog {
	s.mu.RLock()
	l := s.logs[resumeID]
	s.mu.RUnlock()
	if l != nil || !create {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l = s.logs[resumeID]; l == nil {
		l = &resumeLog{byID: make(map[string]int), current: -1}
		s.logs[resumeID] = l
	}
	return l
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, resumeID string, snapshot *types.ResumeDocument, parentVersionID, changeSummary string) (*types.ResumeVersion, error) {
	if err := CheckResumeID(resumeID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent := parentVersionID
	toCurrent := parent == "" || parent == types.CurrentVersionID
	l := s.log(resumeID, toCurrent)
	if l == nil {
		return nil, versionNotFound(resumeID, parent)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case toCurrent:
		parent = ""
		if l.current >= 0 {
			parent = l.versions[l.current].VersionID
		}
	default:
		if _, ok := l.byID[parent]; !ok {
			return nil, versionNotFound(resumeID, parent)
		}
	}

	v := types.ResumeVersion{
		VersionID:       s.newID(),
		ResumeID:        resumeID,
		VersionNumber:   len(l.versions) + 1,
		ParentVersionID: parent,
		CreatedAt:       s.now().UTC(),
		ChangeSummary:   changeSummary,
		Snapshot:        snapshot.Clone(),
	}
	l.versions = append(l.versions, v)
	l.byID[v.VersionID] = len(l.versions) - 1
	l.current = len(l.versions) - 1

	return cloneVersion(&v), nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, resumeID, versionID string) (*types.ResumeVersion, error) {
	l := s.log(resumeID, false)
	if l == nil {
		return nil, resumeNotFound(resumeID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.byID[versionID]
	if !ok {
		return nil, versionNotFound(resumeID, versionID)
	}
	return cloneVersion(&l.versions[idx]), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, resumeID string) ([]types.VersionMeta, error) {
	l := s.log(resumeID, false)
	if l == nil {
		return nil, resumeNotFound(resumeID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.VersionMeta, len(l.versions))
	for i := range l.versions {
		out[i] = l.versions[i].Meta()
		out[i].IsCurrent = i == l.current
	}
	return out, nil
}

// GetCurrent implements Store.
func (s *MemoryStore) GetCurrent(_ context.Context, resumeID string) (*types.ResumeVersion, error) {
	l := s.log(resumeID, false)
	if l == nil {
		return nil, resumeNotFound(resumeID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current < 0 {
		return nil, resumeNotFound(resumeID)
	}
	return cloneVersion(&l.versions[l.current]), nil
}

// SetCurrent implements Store.
func (s *MemoryStore) SetCurrent(_ context.Context, resumeID, versionID string) error {
	l := s.log(resumeID, false)
	if l == nil {
		return resumeNotFound(resumeID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.byID[versionID]
	if !ok {
		return versionNotFound(resumeID, versionID)
	}
	l.current = idx
	return nil
}

// Step implements Store.
func (s *MemoryStore) Step(_ context.Context, resumeID string, delta int) (*types.ResumeVersion, error) {
	l := s.log(resumeID, false)
	if l == nil {
		return nil, resumeNotFound(resumeID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.current + delta
	if l.current < 0 || next < 0 || next >= len(l.versions) {
		return nil, NoAdjacentVersion(resumeID, delta)
	}
	l.current = next
	return cloneVersion(&l.versions[next]), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
