// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skilltrail/skilltrail/internal/events"
	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/metrics"
	"github.com/skilltrail/skilltrail/internal/models"
	"github.com/skilltrail/skilltrail/internal/store"
)

// defaultGenerationTimeout bounds one end-to-end generation run, covering
// both the completion call and the video fan-out.
const defaultGenerationTimeout = 60 * time.Second

// Generator produces raw recommendation text from a curator prompt.
// genai.Client satisfies this.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VideoProvider aggregates scored video candidates for a profile.
// videosearch.Aggregator satisfies this.
type VideoProvider interface {
	Aggregate(ctx context.Context, profile *models.LearnerProfile, queries []string) ([]models.VideoCandidate, error)
}

// Publisher emits recommendation events. events.Bus satisfies this.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Orchestrator runs the recommendation pipeline: prompt building, text
// generation, video aggregation, validation, and persistence.
//
// Generation and video search run concurrently. A generation failure fails
// the run and leaves any previously stored bundle untouched; a video search
// failure only degrades the bundle to an empty video list.
type Orchestrator struct {
	store   store.Store
	gen     Generator
	videos  VideoProvider
	pub     Publisher
	timeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewOrchestrator wires the pipeline. gen may be nil when generation is not
// configured; videos and pub may be nil to disable those stages.
func NewOrchestrator(s store.Store, gen Generator, videos VideoProvider, pub Publisher) *Orchestrator {
	return &Orchestrator{
		store:    s,
		gen:      gen,
		videos:   videos,
		pub:      pub,
		timeout:  defaultGenerationTimeout,
		inflight: make(map[string]struct{}),
	}
}

// Generate produces and persists a fresh recommendation bundle for a
// learner. At most one generation per learner runs at a time; a second
// concurrent request fails fast with ErrGenerationInProgress.
func (o *Orchestrator) Generate(ctx context.Context, learnerID string) (*models.RecommendationBundle, error) {
	if o.gen == nil {
		return nil, ErrGenerationDisabled
	}

	profile, err := o.store.GetProfile(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if !profile.IsComplete() {
		return nil, ErrProfileIncomplete
	}

	if !o.acquire(learnerID) {
		return nil, ErrGenerationInProgress
	}
	defer o.release(learnerID)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	bundle, err := o.run(ctx, profile)
	if err != nil {
		metrics.RecordGeneration(outcomeLabel(err), time.Since(start))
		return nil, err
	}
	metrics.RecordGeneration("success", time.Since(start))

	if err := o.store.PutBundle(ctx, bundle); err != nil {
		return nil, fmt.Errorf("store recommendation bundle: %w", err)
	}

	o.publishGenerated(bundle)

	logging.Info().
		Str("learner_id", learnerID).
		Str("bundle_id", bundle.ID).
		Int("roadmaps", len(bundle.Roadmaps)).
		Int("resources", len(bundle.Resources)).
		Int("videos", len(bundle.Videos)).
		Dur("duration", time.Since(start)).
		Msg("Recommendation bundle generated")

	return bundle, nil
}

// Latest returns the stored bundle for a learner without generating.
func (o *Orchestrator) Latest(ctx context.Context, learnerID string) (*models.RecommendationBundle, error) {
	bundle, err := o.store.GetBundle(ctx, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoBundle
	}
	return bundle, err
}

// run executes one generation, fanning video search out next to the
// completion call.
func (o *Orchestrator) run(ctx context.Context, profile *models.LearnerProfile) (*models.RecommendationBundle, error) {
	prompt, err := BuildPrompt(profile)
	if err != nil {
		return nil, err
	}
	metrics.GenerationPromptBytes.Observe(float64(len(prompt)))

	queries, err := BuildSearchQueries(profile)
	if err != nil {
		return nil, err
	}

	type videoResult struct {
		candidates []models.VideoCandidate
		err        error
	}
	videoCh := make(chan videoResult, 1)
	go func() {
		if o.videos == nil {
			videoCh <- videoResult{}
			return
		}
		candidates, err := o.videos.Aggregate(ctx, profile, queries)
		videoCh <- videoResult{candidates: candidates, err: err}
	}()

	raw, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Reason: ReasonTransport, Err: err}
	}

	roadmaps, resources, err := ParseGenerationResponse(raw)
	if err != nil {
		return nil, err
	}

	videos := <-videoCh
	if videos.err != nil {
		logging.Warn().Err(videos.err).Str("learner_id", profile.LearnerID).Msg("Video aggregation failed, bundle ships without videos")
		videos.candidates = nil
	}

	return &models.RecommendationBundle{
		ID:          uuid.NewString(),
		LearnerID:   profile.LearnerID,
		Roadmaps:    roadmaps,
		Resources:   resources,
		Videos:      videos.candidates,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (o *Orchestrator) acquire(learnerID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[learnerID]; busy {
		return false
	}
	o.inflight[learnerID] = struct{}{}
	return true
}

func (o *Orchestrator) release(learnerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, learnerID)
}

func (o *Orchestrator) publishGenerated(bundle *models.RecommendationBundle) {
	if o.pub == nil {
		return
	}

	event := events.RecommendationGeneratedEvent{
		LearnerID:     bundle.LearnerID,
		BundleID:      bundle.ID,
		RoadmapCount:  len(bundle.Roadmaps),
		ResourceCount: len(bundle.Resources),
		VideoCount:    len(bundle.Videos),
		GeneratedAt:   bundle.GeneratedAt,
	}
	if err := o.pub.Publish(events.TopicRecommendationGenerated, event); err != nil {
		logging.Warn().Err(err).Str("learner_id", bundle.LearnerID).Msg("Failed to publish recommendation event")
	}
}

// outcomeLabel maps a pipeline error to its generation metric label.
func outcomeLabel(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Reason
	}
	return "error"
}
