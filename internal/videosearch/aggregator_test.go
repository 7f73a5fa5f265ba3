// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package videosearch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/skilltrail/skilltrail/internal/models"
)

// fakeSearchClient serves canned results per query and can fail selectively.
type fakeSearchClient struct {
	mu         sync.Mutex
	results    map[string][]models.VideoCandidate
	failures   map[string]error
	inFlight   int32
	maxInUse   int32
	searchHits int
}

func (f *fakeSearchClient) Search(ctx context.Context, query string) ([]models.VideoCandidate, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		observed := atomic.LoadInt32(&f.maxInUse)
		if current <= observed || atomic.CompareAndSwapInt32(&f.maxInUse, observed, current) {
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchHits++
	if err, ok := f.failures[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeSearchClient) Ping(ctx context.Context) error { return nil }

// scoreByTitleLength is a deterministic stand-in relevance function.
func scoreByTitleLength(_ *models.LearnerProfile, video *models.VideoCandidate) int {
	return len(video.Title)
}

func video(id, title string) models.VideoCandidate {
	return models.VideoCandidate{ID: id, Title: title}
}

func TestAggregateMergesAndRanks(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]models.VideoCandidate{
			"q1": {video("a", "short"), video("b", "a longer title here")},
			"q2": {video("c", "medium title")},
		},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	got, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	// Sorted by descending score (title length).
	if got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Errorf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].RelevanceScore != len("a longer title here") {
		t.Errorf("unexpected score: %d", got[0].RelevanceScore)
	}
}

func TestAggregateDeduplicatesKeepingFirst(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]models.VideoCandidate{
			"q1": {{ID: "dup", Title: "first", Channel: "one"}},
			"q2": {{ID: "dup", Title: "first", Channel: "two"}},
		},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	got, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate after dedupe, got %d", len(got))
	}
	if got[0].Channel != "one" {
		t.Errorf("expected first occurrence kept, got channel %q", got[0].Channel)
	}
}

func TestAggregateCapsResults(t *testing.T) {
	many := make([]models.VideoCandidate, 10)
	for i := range many {
		many[i] = video(fmt.Sprintf("v%d", i), fmt.Sprintf("title %d", i))
	}
	client := &fakeSearchClient{
		results: map[string][]models.VideoCandidate{"q1": many},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	got, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got) != maxCandidates {
		t.Errorf("expected %d candidates, got %d", maxCandidates, len(got))
	}
}

func TestAggregateSkipsFailedQueries(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]models.VideoCandidate{
			"ok": {video("a", "kept")},
		},
		failures: map[string]error{
			"bad": errors.New("quota exceeded"),
		},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	got, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"bad", "ok"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("expected surviving candidate from ok query, got %+v", got)
	}
}

func TestAggregateEmptyResultIsValid(t *testing.T) {
	client := &fakeSearchClient{
		failures: map[string]error{
			"q1": errors.New("down"),
			"q2": errors.New("down"),
		},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	got, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d candidates", len(got))
	}
}

func TestAggregateBoundsConcurrency(t *testing.T) {
	results := map[string][]models.VideoCandidate{}
	queries := make([]string, 12)
	for i := range queries {
		q := fmt.Sprintf("q%d", i)
		queries[i] = q
		results[q] = []models.VideoCandidate{video(fmt.Sprintf("v%d", i), "t")}
	}
	client := &fakeSearchClient{results: results}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	if _, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, queries); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if peak := atomic.LoadInt32(&client.maxInUse); peak > maxConcurrentQueries {
		t.Errorf("concurrency %d exceeded limit %d", peak, maxConcurrentQueries)
	}
	if client.searchHits != len(queries) {
		t.Errorf("expected %d searches, got %d", len(queries), client.searchHits)
	}
}

func TestAggregateCachesQueryResults(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]models.VideoCandidate{
			"q1": {video("a", "cached video")},
		},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)

	first, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1"})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if client.searchHits != 1 {
		t.Errorf("expected 1 client search, got %d", client.searchHits)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != "a" {
		t.Errorf("cached aggregation differs: first=%v second=%v", first, second)
	}
}

func TestAggregateDoesNotCacheFailures(t *testing.T) {
	client := &fakeSearchClient{
		failures: map[string]error{"q1": errors.New("down")},
	}

	agg := NewAggregator(client, scoreByTitleLength, 0)
	for i := 0; i < 2; i++ {
		if _, err := agg.Aggregate(context.Background(), &models.LearnerProfile{}, []string{"q1"}); err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
	}

	if client.searchHits != 2 {
		t.Errorf("failed queries should retry, got %d searches", client.searchHits)
	}
}

func TestAggregateCancelledContext(t *testing.T) {
	client := &fakeSearchClient{}
	agg := NewAggregator(client, scoreByTitleLength, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := agg.Aggregate(ctx, &models.LearnerProfile{}, []string{"q1"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
