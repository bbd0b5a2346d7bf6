package ats

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/atul48kumar90/resume-tailor-agent/internal/cache"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// CachedScorer memoizes score results in a tiered cache and collapses
// concurrent computations of the same input.
type CachedScorer struct {
	scorer *Scorer
	cache  *cache.Tiered
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedScorer wraps scorer with c. A nil cache disables memoization.
func NewCachedScorer(scorer *Scorer, c *cache.Tiered, logger *zap.Logger) *CachedScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedScorer{scorer: scorer, cache: c, logger: logger}
}

// ScoreContext implements Service.
func (c *CachedScorer) ScoreContext(ctx context.Context, resume *types.ResumeDocument, reqs *types.JobRequirementSet) *Result {
	key, err := c.key(resume, reqs)
	if err != nil {
		c.logger.Debug("ats cache key failed, scoring directly", zap.Error(err))
		return c.scorer.Score(resume, reqs)
	}

	if r, ok := cache.GetJSON[Result](ctx, c.cache, key); ok {
		return &r
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		r := c.scorer.Score(resume, reqs)
		cache.SetJSON(ctx, c.cache, key, r)
		return r, nil
	})
	return v.(*Result)
}

// key hashes the canonical JSON of the inputs together with the weights so a
// configuration change never serves stale scores.
func (c *CachedScorer) key(resume *types.ResumeDocument, reqs *types.JobRequirementSet) (string, error) {
	payload, err := json.Marshal(struct {
		Resume  *types.ResumeDocument    `json:"resume"`
		Reqs    *types.JobRequirementSet `json:"reqs"`
		Weights Weights                  `json:"weights"`
	}{resume, reqs, c.scorer.weights})
	if err != nil {
		return "", err
	}
	return cache.Key("ats", string(payload)), nil
}
