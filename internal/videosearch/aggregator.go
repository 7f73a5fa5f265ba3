// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package videosearch

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skilltrail/skilltrail/internal/cache"
	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/metrics"
	"github.com/skilltrail/skilltrail/internal/models"
)

const (
	// maxConcurrentQueries bounds the search fan-out per aggregation.
	maxConcurrentQueries = 3

	// maxCandidates is how many videos an aggregation returns after ranking.
	maxCandidates = 6

	// queryCacheTTL is how long raw query results stay cached. Scores are
	// profile-specific and are never cached, only the raw search results.
	queryCacheTTL = 15 * time.Minute
)

// ScoreFunc assigns a relevance score to a candidate for a learner.
type ScoreFunc func(profile *models.LearnerProfile, video *models.VideoCandidate) int

// Aggregator fans search queries out to the video API, scores the merged
// results against the learner profile, and returns the top candidates.
//
// Individual query failures are logged and skipped; an aggregation only
// fails outright when the context is cancelled. An empty result is valid.
type Aggregator struct {
	client  ClientInterface
	score   ScoreFunc
	limiter *rate.Limiter
	results *cache.Cache
}

// NewAggregator builds an aggregator over the given search client. The rate
// limit applies across all queries and aggregations sharing this instance;
// queriesPerSecond <= 0 disables limiting.
func NewAggregator(client ClientInterface, score ScoreFunc, queriesPerSecond float64) *Aggregator {
	limit := rate.Inf
	if queriesPerSecond > 0 {
		limit = rate.Limit(queriesPerSecond)
	}

	return &Aggregator{
		client:  client,
		score:   score,
		limiter: rate.NewLimiter(limit, 1),
		results: cache.New(queryCacheTTL),
	}
}

// searchCached returns cached results for a query, falling back to the
// search client on a miss. Only successful lookups are cached.
func (a *Aggregator) searchCached(ctx context.Context, query string) ([]models.VideoCandidate, error) {
	key := cache.GenerateKey("video-search", query)
	if hit, ok := a.results.Get(key); ok {
		if candidates, ok := hit.([]models.VideoCandidate); ok {
			return candidates, nil
		}
	}

	candidates, err := a.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	a.results.Set(key, candidates)
	return candidates, nil
}

// Aggregate runs all queries, deduplicates by video ID keeping the first
// occurrence in query order, scores, and returns the top candidates sorted
// by descending relevance.
func (a *Aggregator) Aggregate(ctx context.Context, profile *models.LearnerProfile, queries []string) ([]models.VideoCandidate, error) {
	start := time.Now()
	defer func() {
		metrics.VideoSearchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([][]models.VideoCandidate, len(queries))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentQueries)

	for i, query := range queries {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			defer func() { <-sem }()

			candidates, err := a.searchCached(ctx, query)
			if err != nil {
				metrics.VideoQueryFailures.Inc()
				logging.Warn().Err(err).Str("query", query).Msg("Video search query failed, skipping")
				return
			}
			results[i] = candidates
		}(i, query)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge in query order, keeping the first occurrence of each video.
	seen := make(map[string]bool)
	merged := make([]models.VideoCandidate, 0, maxCandidates)
	for _, batch := range results {
		for _, candidate := range batch {
			if seen[candidate.ID] {
				continue
			}
			seen[candidate.ID] = true
			candidate.RelevanceScore = a.score(profile, &candidate)
			merged = append(merged, candidate)
		}
	}

	// Stable sort keeps query order among equal scores.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	if len(merged) > maxCandidates {
		merged = merged[:maxCandidates]
	}

	metrics.VideoCandidatesReturned.Observe(float64(len(merged)))

	return merged, nil
}
