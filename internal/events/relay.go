// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/metrics"
)

// Relay consumes domain events and writes them to the activity log.
// It runs as a supervised service; subscriptions are (re)established on
// each Serve call so a restart after failure gets fresh channels.
type Relay struct {
	bus *Bus
}

// NewRelay builds a relay over the bus.
func NewRelay(bus *Bus) *Relay {
	return &Relay{bus: bus}
}

func (r *Relay) String() string { return "event-relay" }

// Serve consumes both topics until the context is cancelled.
func (r *Relay) Serve(ctx context.Context) error {
	generated, err := r.bus.Subscribe(ctx, TopicRecommendationGenerated)
	if err != nil {
		return err
	}
	toggled, err := r.bus.Subscribe(ctx, TopicProgressStepToggled)
	if err != nil {
		return err
	}

	logging.Info().Msg("Event relay started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-generated:
			if !ok {
				return nil
			}
			r.handleGenerated(msg)
		case msg, ok := <-toggled:
			if !ok {
				return nil
			}
			r.handleToggled(msg)
		}
	}
}

func (r *Relay) handleGenerated(msg *message.Message) {
	defer msg.Ack()

	var event RecommendationGeneratedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Malformed recommendation event")
		return
	}

	metrics.EventsProcessed.WithLabelValues(TopicRecommendationGenerated).Inc()
	logging.Info().
		Str("learner_id", event.LearnerID).
		Str("bundle_id", event.BundleID).
		Int("roadmaps", event.RoadmapCount).
		Int("resources", event.ResourceCount).
		Int("videos", event.VideoCount).
		Msg("Recommendations generated")
}

func (r *Relay) handleToggled(msg *message.Message) {
	defer msg.Ack()

	var event ProgressStepToggledEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Malformed progress event")
		return
	}

	metrics.EventsProcessed.WithLabelValues(TopicProgressStepToggled).Inc()
	logging.Info().
		Str("learner_id", event.LearnerID).
		Str("roadmap_id", event.RoadmapID).
		Int("step_index", event.StepIndex).
		Bool("completed", event.Completed).
		Int("total_xp", event.TotalXP).
		Int("level", event.Level).
		Msg("Progress step toggled")
}
