// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package progress tracks per-roadmap step completion and the learner's
// XP, level, and streak state derived from it.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/skilltrail/skilltrail/internal/events"
	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/metrics"
	"github.com/skilltrail/skilltrail/internal/models"
	"github.com/skilltrail/skilltrail/internal/store"
)

// XP awarded when a step transitions to completed for the first time.
// Unchecking a step never deducts XP.
const xpPerStep = 10

// Sentinel errors for the progress API.
var (
	ErrAlreadyStarted = errors.New("roadmap already started for learner")
	ErrNotStarted     = errors.New("roadmap not started for learner")
	ErrStepOutOfRange = errors.New("step index out of range for roadmap")
	ErrInvalidSteps   = errors.New("total steps must be positive")
)

// Publisher emits progress events. events.Bus satisfies this.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Tracker coordinates progress writes. Toggles for the same learner/roadmap
// pair are serialized through a keyed mutex; the store's version CAS guards
// against writers outside this process.
type Tracker struct {
	store store.Store
	pub   Publisher
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTracker builds a tracker over the given store. pub may be nil to
// disable event emission.
func NewTracker(s store.Store, pub Publisher) *Tracker {
	return &Tracker{
		store: s,
		pub:   pub,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing one learner/roadmap pair.
func (t *Tracker) lockFor(learnerID, roadmapID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := learnerID + ":" + roadmapID
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	return m
}

// Start creates a progress record for a roadmap. Starting a roadmap that
// already has a record fails with ErrAlreadyStarted; the existing record is
// never reset.
func (t *Tracker) Start(ctx context.Context, learnerID, roadmapID string, totalSteps int) (*models.ProgressRecord, error) {
	if totalSteps <= 0 {
		return nil, ErrInvalidSteps
	}

	lock := t.lockFor(learnerID, roadmapID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := t.store.GetProgress(ctx, learnerID, roadmapID); err == nil {
		return nil, ErrAlreadyStarted
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := t.now().UTC()
	record := &models.ProgressRecord{
		LearnerID:  learnerID,
		RoadmapID:  roadmapID,
		TotalSteps: totalSteps,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	record.Recalculate()

	if err := t.store.PutProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("store progress record: %w", err)
	}

	metrics.ProgressRoadmapsStarted.Inc()
	logging.Info().Str("learner_id", learnerID).Str("roadmap_id", roadmapID).Int("total_steps", totalSteps).Msg("Roadmap started")

	return record, nil
}

// ToggleStep marks a step completed or not and returns the updated record
// together with the learner's XP state.
//
// XP is asymmetric: completing a step for the first time awards xpPerStep,
// unchecking it deducts nothing. The stored step count is authoritative;
// the caller-supplied totalSteps is accepted only on records that predate
// step counts (zero TotalSteps).
func (t *Tracker) ToggleStep(ctx context.Context, learnerID, roadmapID string, stepIndex int, completed bool, totalSteps int) (*models.ProgressRecord, *models.LearnerState, error) {
	lock := t.lockFor(learnerID, roadmapID)
	lock.Lock()
	defer lock.Unlock()

	record, err := t.store.GetProgress(ctx, learnerID, roadmapID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotStarted
		}
		return nil, nil, err
	}

	if record.TotalSteps == 0 && totalSteps > 0 {
		record.TotalSteps = totalSteps
	}
	if stepIndex < 0 || stepIndex >= record.TotalSteps {
		return nil, nil, ErrStepOutOfRange
	}

	awardXP := false
	if completed {
		awardXP = record.AddStep(stepIndex)
	} else {
		record.RemoveStep(stepIndex)
	}
	record.Recalculate()
	record.UpdatedAt = t.now().UTC()

	if err := t.store.PutProgress(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("store progress record: %w", err)
	}

	state, err := t.applyXP(ctx, learnerID, awardXP)
	if err != nil {
		return nil, nil, err
	}

	direction := "uncomplete"
	if completed {
		direction = "complete"
	}
	metrics.ProgressToggles.WithLabelValues(direction).Inc()
	if awardXP {
		metrics.ProgressXPAwarded.Add(xpPerStep)
	}

	t.publishToggle(record, state, stepIndex, completed, awardXP)

	return record, state, nil
}

// Progress returns the record for one roadmap.
func (t *Tracker) Progress(ctx context.Context, learnerID, roadmapID string) (*models.ProgressRecord, error) {
	record, err := t.store.GetProgress(ctx, learnerID, roadmapID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotStarted
	}
	return record, err
}

// Overview returns all progress records for a learner plus their XP state.
// A learner with no recorded activity gets a zero-value state at level 1.
func (t *Tracker) Overview(ctx context.Context, learnerID string) ([]models.ProgressRecord, *models.LearnerState, error) {
	records, err := t.store.ListProgress(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}

	state, err := t.store.GetLearnerState(ctx, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		state = &models.LearnerState{LearnerID: learnerID, Level: models.LevelForXP(0)}
		err = nil
	}
	if err != nil {
		return nil, nil, err
	}

	return records, state, nil
}

// applyXP loads (or creates) the learner state and, when award is set,
// applies the XP and streak rules for a newly completed step.
func (t *Tracker) applyXP(ctx context.Context, learnerID string, award bool) (*models.LearnerState, error) {
	state, err := t.store.GetLearnerState(ctx, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		state = &models.LearnerState{LearnerID: learnerID, Level: models.LevelForXP(0)}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if !award {
		return state, nil
	}

	state.TotalXP += xpPerStep
	state.Level = models.LevelForXP(state.TotalXP)

	today := t.now().UTC().Truncate(24 * time.Hour)
	if !state.LastActiveDate.Equal(today) {
		yesterday := today.AddDate(0, 0, -1)
		if state.LastActiveDate.Equal(yesterday) {
			state.Streak++
		} else {
			state.Streak = 1
		}
		state.LastActiveDate = today
	}

	if err := t.store.PutLearnerState(ctx, state); err != nil {
		return nil, fmt.Errorf("store learner state: %w", err)
	}

	return state, nil
}

func (t *Tracker) publishToggle(record *models.ProgressRecord, state *models.LearnerState, stepIndex int, completed, awarded bool) {
	if t.pub == nil {
		return
	}

	xp := 0
	if awarded {
		xp = xpPerStep
	}
	event := events.ProgressStepToggledEvent{
		LearnerID:       record.LearnerID,
		RoadmapID:       record.RoadmapID,
		StepIndex:       stepIndex,
		Completed:       completed,
		XPAwarded:       xp,
		TotalXP:         state.TotalXP,
		Level:           state.Level,
		ProgressPercent: record.ProgressPercent,
		ToggledAt:       record.UpdatedAt,
	}
	if err := t.pub.Publish(events.TopicProgressStepToggled, event); err != nil {
		logging.Warn().Err(err).Str("learner_id", record.LearnerID).Msg("Failed to publish progress event")
	}
}
