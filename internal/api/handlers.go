// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"time"

	"github.com/skilltrail/skilltrail/internal/progress"
	"github.com/skilltrail/skilltrail/internal/recommend"
	"github.com/skilltrail/skilltrail/internal/store"
)

// BreakerStateFunc reports the video search circuit breaker state for
// health output. Nil means video search is not configured.
type BreakerStateFunc func() string

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store        store.Store
	orchestrator *recommend.Orchestrator
	tracker      *progress.Tracker

	version           string
	generationEnabled bool
	breakerState      BreakerStateFunc
	startTime         time.Time
}

// HandlerConfig bundles the Handler constructor arguments.
type HandlerConfig struct {
	Store             store.Store
	Orchestrator      *recommend.Orchestrator
	Tracker           *progress.Tracker
	Version           string
	GenerationEnabled bool
	BreakerState      BreakerStateFunc
}

// NewHandler creates the API handler set.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		store:             cfg.Store,
		orchestrator:      cfg.Orchestrator,
		tracker:           cfg.Tracker,
		version:           cfg.Version,
		generationEnabled: cfg.GenerationEnabled,
		breakerState:      cfg.BreakerState,
		startTime:         time.Now(),
	}
}
