// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package events carries domain events over an in-process Watermill
// pub/sub. Producers publish typed payloads; the relay service consumes
// them for structured activity logging.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/metrics"
)

// Topics published on the bus.
const (
	TopicRecommendationGenerated = "recommendation.generated"
	TopicProgressStepToggled     = "progress.step_toggled"
)

// RecommendationGeneratedEvent is published after a bundle is persisted.
type RecommendationGeneratedEvent struct {
	LearnerID     string    `json:"learnerId"`
	BundleID      string    `json:"bundleId"`
	RoadmapCount  int       `json:"roadmapCount"`
	ResourceCount int       `json:"resourceCount"`
	VideoCount    int       `json:"videoCount"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// ProgressStepToggledEvent is published after a step toggle is persisted.
type ProgressStepToggledEvent struct {
	LearnerID       string    `json:"learnerId"`
	RoadmapID       string    `json:"roadmapId"`
	StepIndex       int       `json:"stepIndex"`
	Completed       bool      `json:"completed"`
	XPAwarded       int       `json:"xpAwarded"`
	TotalXP         int       `json:"totalXp"`
	Level           int       `json:"level"`
	ProgressPercent int       `json:"progressPercent"`
	ToggledAt       time.Time `json:"toggledAt"`
}

// Bus wraps a GoChannel pub/sub with JSON payload marshaling.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates an in-process event bus. Published messages are buffered
// so a slow consumer cannot block producers.
func NewBus() *Bus {
	logger := newLoggerAdapter()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	return &Bus{pubsub: pubsub, logger: logger}
}

// Publish marshals payload to JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Subscribe returns a channel of raw messages for topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
