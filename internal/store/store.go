// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package store persists learner profiles, recommendation bundles, progress
// records, and learner XP state. Two implementations exist: a BadgerDB-backed
// store for production and an in-memory store for tests and ephemeral runs.
package store

import (
	"context"
	"errors"

	"github.com/skilltrail/skilltrail/internal/models"
)

// Sentinel errors returned by store implementations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict indicates a compare-and-swap write lost a race:
	// the stored version no longer matches the caller's expected version.
	ErrVersionConflict = errors.New("record version conflict")
)

// Store is the full persistence surface.
//
// PutProgress and PutLearnerState are compare-and-swap writes: the record's
// Version field must match the stored version (0 for a record that does not
// exist yet). On success the store increments the record's Version in place.
// All other writes are last-writer-wins.
type Store interface {
	// Profiles
	GetProfile(ctx context.Context, learnerID string) (*models.LearnerProfile, error)
	PutProfile(ctx context.Context, profile *models.LearnerProfile) error

	// Recommendation bundles, keyed by learner. A new bundle replaces the
	// previous one; failed generations never reach the store.
	GetBundle(ctx context.Context, learnerID string) (*models.RecommendationBundle, error)
	PutBundle(ctx context.Context, bundle *models.RecommendationBundle) error

	// Roadmap progress
	GetProgress(ctx context.Context, learnerID, roadmapID string) (*models.ProgressRecord, error)
	PutProgress(ctx context.Context, record *models.ProgressRecord) error
	ListProgress(ctx context.Context, learnerID string) ([]models.ProgressRecord, error)

	// Learner XP state
	GetLearnerState(ctx context.Context, learnerID string) (*models.LearnerState, error)
	PutLearnerState(ctx context.Context, state *models.LearnerState) error

	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
