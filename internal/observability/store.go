package observability

import (
	"context"
	"errors"
	"time"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// InstrumentedStore records a counter and a latency sample for every call
// to the wrapped store.
type InstrumentedStore struct {
	next      versions.Store
	collector *Collector
}

var _ versions.Store = (*InstrumentedStore)(nil)

// InstrumentStore wraps next. A nil collector returns next unchanged.
func InstrumentStore(next versions.Store, c *Collector) versions.Store {
	if c == nil {
		return next
	}
	return &InstrumentedStore{next: next, collector: c}
}

func storeStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, versions.ErrNotFound):
		return "not_found"
	default:
		var inputErr *versions.InputError
		if errors.As(err, &inputErr) {
			return "invalid"
		}
		return "error"
	}
}

func (s *InstrumentedStore) Append(ctx context.Context, resumeID string, snapshot *types.ResumeDocument, parentVersionID, changeSummary string) (*types.ResumeVersion, error) {
	start := time.Now()
	v, err := s.next.Append(ctx, resumeID, snapshot, parentVersionID, changeSummary)
	s.collector.observeStore("append", start, storeStatus(err))
	return v, err
}

func (s *InstrumentedStore) Get(ctx context.Context, resumeID, versionID string) (*types.ResumeVersion, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, resumeID, versionID)
	s.collector.observeStore("get", start, storeStatus(err))
	return v, err
}

func (s *InstrumentedStore) List(ctx context.Context, resumeID string) ([]types.VersionMeta, error) {
	start := time.Now()
	metas, err := s.next.List(ctx, resumeID)
	s.collector.observeStore("list", start, storeStatus(err))
	return metas, err
}

func (s *InstrumentedStore) GetCurrent(ctx context.Context, resumeID string) (*types.ResumeVersion, error) {
	start := time.Now()
	v, err := s.next.GetCurrent(ctx, resumeID)
	s.collector.observeStore("get_current", start, storeStatus(err))
	return v, err
}

func (s *InstrumentedStore) SetCurrent(ctx context.Context, resumeID, versionID string) error {
	start := time.Now()
	err := s.next.SetCurrent(ctx, resumeID, versionID)
	s.collector.observeStore("set_current", start, storeStatus(err))
	return err
}

func (s *InstrumentedStore) Step(ctx context.Context, resumeID string, delta int) (*types.ResumeVersion, error) {
	start := time.Now()
	v, err := s.next.Step(ctx, resumeID, delta)
	s.collector.observeStore("step", start, storeStatus(err))
	return v, err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

// InstrumentedScorer records the score and latency of every result.
type InstrumentedScorer struct {
	next      ats.Service
	collector *Collector
}

// InstrumentScorer wraps next. A nil collector returns next unchanged.
func InstrumentScorer(next ats.Service, c *Collector) ats.Service {
	if c == nil {
		return next
	}
	return &InstrumentedScorer{next: next, collector: c}
}

// ScoreContext implements ats.Service.
func (s *InstrumentedScorer) ScoreContext(ctx context.Context, resume *types.ResumeDocument, reqs *types.JobRequirementSet) *ats.Result {
	start := time.Now()
	r := s.next.ScoreContext(ctx, resume, reqs)
	if r != nil {
		s.collector.ObserveScore(r.Score, time.Since(start))
	}
	return r
}
