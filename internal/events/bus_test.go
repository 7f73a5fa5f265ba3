// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package events

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicProgressStepToggled)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	want := ProgressStepToggledEvent{
		LearnerID: "learner-1",
		RoadmapID: "roadmap-1",
		StepIndex: 2,
		Completed: true,
		XPAwarded: 10,
		TotalXP:   30,
		Level:     1,
	}
	if err := bus.Publish(TopicProgressStepToggled, want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		var got ProgressStepToggledEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if err := bus.Publish(TopicRecommendationGenerated, RecommendationGeneratedEvent{LearnerID: "l"}); err != nil {
				t.Errorf("Publish: %v", err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without subscribers")
	}
}

func TestPublishUnmarshalablePayload(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	if err := bus.Publish(TopicProgressStepToggled, make(chan int)); err == nil {
		t.Error("expected marshal error for channel payload")
	}
}
