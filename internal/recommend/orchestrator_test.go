// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skilltrail/skilltrail/internal/events"
	"github.com/skilltrail/skilltrail/internal/models"
	"github.com/skilltrail/skilltrail/internal/store"
)

// fakeGenerator serves a canned completion, optionally blocking until
// released to exercise the single-flight guard.
type fakeGenerator struct {
	response string
	err      error
	block    chan struct{}
	calls    int
	mu       sync.Mutex
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.response, g.err
}

type fakeVideoProvider struct {
	candidates []models.VideoCandidate
	err        error
}

func (v *fakeVideoProvider) Aggregate(ctx context.Context, profile *models.LearnerProfile, queries []string) ([]models.VideoCandidate, error) {
	return v.candidates, v.err
}

type recordingPublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads []interface{}
}

func (p *recordingPublisher) Publish(topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func seedProfile(t *testing.T, s store.Store) *models.LearnerProfile {
	t.Helper()
	profile := &models.LearnerProfile{
		LearnerID:       "learner-1",
		ExperienceLevel: models.ExperienceBeginner,
		TechInterests:   []string{"go"},
		LearningStyle:   models.StyleHandsOn,
	}
	checkNoError(t, s.PutProfile(context.Background(), profile), "seed profile")
	return profile
}

func TestGeneratePersistsBundle(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)
	gen := &fakeGenerator{response: validGeneration}
	videos := &fakeVideoProvider{candidates: []models.VideoCandidate{{ID: "v1", Title: "Go Intro", RelevanceScore: 80}}}
	pub := &recordingPublisher{}

	orch := NewOrchestrator(s, gen, videos, pub)
	bundle, err := orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "generate")

	checkIntEqual(t, len(bundle.Roadmaps), 1, "roadmap count")
	checkIntEqual(t, len(bundle.Resources), 1, "resource count")
	checkIntEqual(t, len(bundle.Videos), 1, "video count")
	checkTrue(t, bundle.ID != "", "bundle has an id")

	stored, err := s.GetBundle(context.Background(), "learner-1")
	checkNoError(t, err, "fetch stored bundle")
	checkStringEqual(t, stored.ID, bundle.ID, "stored bundle id")

	checkIntEqual(t, len(pub.topics), 1, "published events")
	checkStringEqual(t, pub.topics[0], events.TopicRecommendationGenerated, "event topic")
}

func TestGenerateMissingProfile(t *testing.T) {
	orch := NewOrchestrator(store.NewMemoryStore(), &fakeGenerator{response: validGeneration}, nil, nil)

	_, err := orch.Generate(context.Background(), "nobody")
	checkTrue(t, errors.Is(err, store.ErrNotFound), "missing profile error")
}

func TestGenerateIncompleteProfile(t *testing.T) {
	s := store.NewMemoryStore()
	checkNoError(t, s.PutProfile(context.Background(), &models.LearnerProfile{LearnerID: "learner-1"}), "seed profile")

	orch := NewOrchestrator(s, &fakeGenerator{response: validGeneration}, nil, nil)
	_, err := orch.Generate(context.Background(), "learner-1")
	checkTrue(t, errors.Is(err, ErrProfileIncomplete), "incomplete profile error")
}

func TestGenerateDisabled(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	orch := NewOrchestrator(s, nil, nil, nil)
	_, err := orch.Generate(context.Background(), "learner-1")
	checkTrue(t, errors.Is(err, ErrGenerationDisabled), "disabled error")
}

func TestGenerateSingleFlight(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	gen := &fakeGenerator{response: validGeneration, block: make(chan struct{})}
	orch := NewOrchestrator(s, gen, nil, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.Generate(context.Background(), "learner-1")
		firstDone <- err
	}()

	// Wait until the first run is inside the generator.
	deadline := time.After(2 * time.Second)
	for {
		gen.mu.Lock()
		started := gen.calls > 0
		gen.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first generation never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, err := orch.Generate(context.Background(), "learner-1")
	checkTrue(t, errors.Is(err, ErrGenerationInProgress), "second request rejected")

	close(gen.block)
	checkNoError(t, <-firstDone, "first generation")

	// After completion the learner can generate again.
	_, err = orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "generation after release")
}

func TestGenerateTransportFailureKeepsOldBundle(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	orch := NewOrchestrator(s, &fakeGenerator{response: validGeneration}, nil, nil)
	first, err := orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "first generation")

	failing := NewOrchestrator(s, &fakeGenerator{err: errors.New("connection refused")}, nil, nil)
	_, err = failing.Generate(context.Background(), "learner-1")
	checkError(t, err, "failed generation")

	var genErr *GenerationError
	checkTrue(t, errors.As(err, &genErr), "error is GenerationError")
	checkStringEqual(t, genErr.Reason, ReasonTransport, "failure reason")

	stored, err := s.GetBundle(context.Background(), "learner-1")
	checkNoError(t, err, "stored bundle survives")
	checkStringEqual(t, stored.ID, first.ID, "old bundle untouched")
}

func TestGenerateUnparsableResponseKeepsOldBundle(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	orch := NewOrchestrator(s, &fakeGenerator{response: validGeneration}, nil, nil)
	first, err := orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "first generation")

	garbled := NewOrchestrator(s, &fakeGenerator{response: "I cannot do that"}, nil, nil)
	_, err = garbled.Generate(context.Background(), "learner-1")
	checkErrorContains(t, err, "unparsable", "unparsable response")

	stored, err := s.GetBundle(context.Background(), "learner-1")
	checkNoError(t, err, "stored bundle survives")
	checkStringEqual(t, stored.ID, first.ID, "old bundle untouched")
}

func TestGenerateVideoFailureDegrades(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	videos := &fakeVideoProvider{err: errors.New("search api down")}
	orch := NewOrchestrator(s, &fakeGenerator{response: validGeneration}, videos, nil)

	bundle, err := orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "generation with failing videos")
	checkIntEqual(t, len(bundle.Videos), 0, "empty video list")
	checkIntEqual(t, len(bundle.Roadmaps), 1, "roadmaps intact")
}

func TestLatest(t *testing.T) {
	s := store.NewMemoryStore()
	seedProfile(t, s)

	orch := NewOrchestrator(s, &fakeGenerator{response: validGeneration}, nil, nil)

	_, err := orch.Latest(context.Background(), "learner-1")
	checkTrue(t, errors.Is(err, ErrNoBundle), "no bundle yet")

	generated, err := orch.Generate(context.Background(), "learner-1")
	checkNoError(t, err, "generate")

	got, err := orch.Latest(context.Background(), "learner-1")
	checkNoError(t, err, "latest")
	checkStringEqual(t, got.ID, generated.ID, "latest bundle id")
}
