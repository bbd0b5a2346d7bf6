// Package compare assembles comparison responses: it resolves two resume
// snapshots, diffs them, and attaches statistics, the side-by-side view and,
// when a requirement set is given, ATS scores for both sides.
package compare

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
	"github.com/atul48kumar90/resume-tailor-agent/internal/rendering"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// Labels used for ad-hoc comparisons that have no stored version.
const (
	BeforeLabel = "before"
	AfterLabel  = "after"
)

// VersionInfo identifies one side of a comparison.
type VersionInfo struct {
	VersionID     string     `json:"version_id"`
	VersionNumber int        `json:"version_number,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ChangeSummary string     `json:"change_summary,omitempty"`
}

// InfoFor describes a stored version.
func InfoFor(v *types.ResumeVersion) VersionInfo {
	created := v.CreatedAt
	return VersionInfo{
		VersionID:     v.VersionID,
		VersionNumber: v.VersionNumber,
		CreatedAt:     &created,
		ChangeSummary: v.ChangeSummary,
	}
}

// ATSComparison holds scores of both snapshots against one requirement set.
type ATSComparison struct {
	Before       *ats.Result `json:"before"`
	After        *ats.Result `json:"after"`
	ScoreChange  int         `json:"score_change"`
	NewlyMatched []string    `json:"newly_matched"`
	NewlyMissing []string    `json:"newly_missing"`
}

// Response is the full comparison payload.
type Response struct {
	Version1   VersionInfo               `json:"version1"`
	Version2   VersionInfo               `json:"version2"`
	Comparison *diff.Result              `json:"comparison"`
	SideBySide *rendering.SideBySideView `json:"side_by_side"`
	Statistics *diff.Statistics          `json:"statistics"`
	ATS        *ATSComparison            `json:"ats,omitempty"`
}

// Observer receives one call per completed comparison.
type Observer interface {
	ObserveCompare(kind string, elapsed time.Duration, stats *diff.Statistics)
}

// Service builds comparison responses.
type Service struct {
	store    versions.Store
	engine   *diff.Engine
	scorer   ats.Service
	logger   *zap.Logger
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithScorer sets the ATS scorer used when a requirement set is supplied.
func WithScorer(scorer ats.Service) Option {
	return func(s *Service) { s.scorer = scorer }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service. store may be nil when only ad-hoc
// documents are compared.
func NewService(store versions.Store, engine *diff.Engine, opts ...Option) *Service {
	if engine == nil {
		engine = diff.NewEngine(diff.DefaultOptions())
	}
	s := &Service{
		store:  store,
		engine: engine,
		scorer: ats.NewScorer(ats.DefaultWeights()),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errNoStore = errors.New("compare: no version store configured")

// CompareVersions compares versionID of resumeID with other. An empty other
// compares against the resume's current version.
func (s *Service) CompareVersions(ctx context.Context, resumeID, versionID, other string, reqs *types.JobRequirementSet) (*Response, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	start := time.Now()

	first, second, err := versions.Compare(ctx, s.store, resumeID, versionID, other)
	if err != nil {
		return nil, err
	}

	resp, err := s.build(ctx, &first.Snapshot, &second.Snapshot, reqs)
	if err != nil {
		return nil, err
	}
	resp.Version1 = InfoFor(first)
	resp.Version2 = InfoFor(second)

	s.logger.Info("versions compared",
		zap.String("resume_id", resumeID),
		zap.Int("version1", first.VersionNumber),
		zap.Int("version2", second.VersionNumber),
		zap.Int("total_changes", resp.Statistics.TotalChanges),
	)
	s.observe("versions", start, resp.Statistics)
	return resp, nil
}

// CompareDocuments compares two documents that are not stored.
func (s *Service) CompareDocuments(ctx context.Context, before, after *types.ResumeDocument, reqs *types.JobRequirementSet) (*Response, error) {
	start := time.Now()
	resp, err := s.build(ctx, before, after, reqs)
	if err != nil {
		return nil, err
	}
	resp.Version1 = VersionInfo{VersionID: BeforeLabel}
	resp.Version2 = VersionInfo{VersionID: AfterLabel}

	s.logger.Debug("documents compared", zap.Int("total_changes", resp.Statistics.TotalChanges))
	s.observe("documents", start, resp.Statistics)
	return resp, nil
}

func (s *Service) build(ctx context.Context, before, after *types.ResumeDocument, reqs *types.JobRequirementSet) (*Response, error) {
	result := s.engine.Diff(before, after)
	result.TextDiff = diff.Lines(rendering.PlainText(before), rendering.PlainText(after))

	resp := &Response{
		Comparison: result,
		SideBySide: rendering.FormatSideBySide(result),
		Statistics: diff.Summarize(result),
	}
	if reqs == nil || s.scorer == nil {
		return resp, nil
	}

	cmp, err := s.scoreBoth(ctx, before, after, reqs)
	if err != nil {
		return nil, err
	}
	resp.ATS = cmp
	return resp, nil
}

func (s *Service) scoreBoth(ctx context.Context, before, after *types.ResumeDocument, reqs *types.JobRequirementSet) (*ATSComparison, error) {
	var cmp ATSComparison
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cmp.Before = s.scorer.ScoreContext(gctx, before, reqs)
		return gctx.Err()
	})
	g.Go(func() error {
		cmp.After = s.scorer.ScoreContext(gctx, after, reqs)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp.ScoreChange = cmp.After.Score - cmp.Before.Score
	cmp.NewlyMatched = subtract(cmp.After.MatchedKeywords, cmp.Before.MatchedKeywords)
	cmp.NewlyMissing = subtract(cmp.After.MissingKeywords, cmp.Before.MissingKeywords)
	return &cmp, nil
}

// subtract returns the items of a not present in b, keeping a's order.
func subtract(a, b []string) []string {
	out := []string{}
	for _, k := range a {
		if !slices.Contains(b, k) {
			out = append(out, k)
		}
	}
	return out
}

func (s *Service) observe(kind string, start time.Time, stats *diff.Statistics) {
	if s.observer != nil {
		s.observer.ObserveCompare(kind, time.Since(start), stats)
	}
}
