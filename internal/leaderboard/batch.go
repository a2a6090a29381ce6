package leaderboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// Orchestrator composes the fetcher, enricher, and cache. The single
// and batch endpoints both go through it, so identical queries share
// cache entries regardless of which endpoint computed them.
type Orchestrator struct {
	fetcher  Fetcher
	enricher *Enricher
	cache    *Cache
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewOrchestrator(fetcher Fetcher, enricher *Enricher, cache *Cache, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		enricher: enricher,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchScope serves one scope: cache hit if live, otherwise a fresh
// aggregation followed by enrichment. The default-avatar fallback only
// applies to freshly computed single-scope results.
func (o *Orchestrator) FetchScope(ctx context.Context, q Query) (*models.LeaderboardResult, error) {
	nq := q.Normalize(o.now().UTC())
	key := nq.CacheKey()

	if res, ok := o.cache.Get(key); ok {
		return res, nil
	}

	res, err := o.fetcher.Fetch(ctx, nq)
	if err != nil {
		return nil, err
	}
	o.enricher.Enrich(ctx, res.Results, true)
	o.cache.Set(key, res)
	return res, nil
}

type scopeJob struct {
	scope string
	key   string
	query Query
}

// FetchScopes serves the batch endpoint. Scopes are deduplicated;
// unknown scope names and per-scope fetch failures land in the errors
// map without affecting the other scopes. Cache misses are computed
// concurrently and joined all-settled.
func (o *Orchestrator) FetchScopes(ctx context.Context, scopes []string, base Query) (map[string]*models.LeaderboardResult, map[string]string) {
	out := make(map[string]*models.LeaderboardResult)
	errs := make(map[string]string)
	now := o.now().UTC()

	var jobs []scopeJob
	seen := make(map[string]bool)
	for _, raw := range scopes {
		scope, ok := ParseScope(raw)
		if !ok {
			errs[raw] = "invalid scope"
			continue
		}
		if seen[string(scope)] {
			continue
		}
		seen[string(scope)] = true

		q := base
		q.Scope = scope
		nq := q.Normalize(now)
		key := nq.CacheKey()

		if res, hit := o.cache.Get(key); hit {
			out[string(scope)] = res
			continue
		}
		jobs = append(jobs, scopeJob{scope: string(scope), key: key, query: nq})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, j := range jobs {
		wg.Add(1)
		go func(j scopeJob) {
			defer wg.Done()

			res, err := o.fetcher.Fetch(ctx, j.query)
			if err != nil {
				o.logger.Errorw("leaderboard scope fetch failed", "scope", j.scope, "error", err)
				mu.Lock()
				errs[j.scope] = err.Error()
				mu.Unlock()
				return
			}

			o.enricher.Enrich(ctx, res.Results, false)
			o.cache.Set(j.key, res)

			mu.Lock()
			out[j.scope] = res
			mu.Unlock()
		}(j)
	}
	wg.Wait()

	return out, errs
}
