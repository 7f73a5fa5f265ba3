// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package main is the entry point for the Skilltrail server.
//
// Skilltrail generates personalized learning roadmaps from learner
// profiles via an LLM completion API, enriches them with video
// resources from an external search API, and tracks learner progress
// (XP, levels, daily streaks) in an embedded Badger store.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML file, env)
//  2. Store: embedded BadgerDB for profiles, bundles, and progress
//  3. Generation client: LLM completions (optional, needs an API key)
//  4. Video search: circuit-broken search client plus aggregator (optional)
//  5. Event bus: in-process Watermill pub/sub with a logging relay
//  6. HTTP server: Chi-routed REST API under /api/v1
//
// All long-running components run under a suture/v4 supervision tree
// and restart with backoff on failure.
//
// # Configuration
//
// See internal/config for the full schema. The common knobs:
//
//	export HTTP_PORT=8330
//	export STORE_PATH=/data/skilltrail
//	export GENERATION_ENABLED=true
//	export OPENAI_API_KEY=sk-...
//	export VIDEO_SEARCH_ENABLED=true
//	export YOUTUBE_API_KEY=...
//	./skilltrail
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout), then
// closes the event bus and the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skilltrail/skilltrail/internal/api"
	"github.com/skilltrail/skilltrail/internal/config"
	"github.com/skilltrail/skilltrail/internal/events"
	"github.com/skilltrail/skilltrail/internal/genai"
	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/progress"
	"github.com/skilltrail/skilltrail/internal/recommend"
	"github.com/skilltrail/skilltrail/internal/store"
	"github.com/skilltrail/skilltrail/internal/supervisor"
	"github.com/skilltrail/skilltrail/internal/supervisor/services"
	"github.com/skilltrail/skilltrail/internal/videosearch"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("generation_enabled", cfg.Generation.Enabled).
		Bool("video_search_enabled", cfg.VideoSearch.Enabled).
		Msg("Starting Skilltrail")

	// Embedded store for profiles, bundles, and progress records.
	st, err := store.OpenBadger(store.BadgerConfig{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		SyncWrites: cfg.Store.SyncWrites,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Str("path", cfg.Store.Path).Bool("in_memory", cfg.Store.InMemory).Msg("Store opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Generation client (optional). A nil generator makes the
	// orchestrator return ErrGenerationDisabled for generate requests.
	var generator recommend.Generator
	if cfg.Generation.Enabled {
		client, err := genai.NewClient(genai.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Timeout:     cfg.Generation.Timeout,
			Temperature: cfg.Generation.Temperature,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize generation client")
		}
		generator = client
		logging.Info().Str("model", cfg.Generation.Model).Msg("Generation client initialized")
	} else {
		logging.Info().Msg("Generation disabled (GENERATION_ENABLED=false)")
	}

	// Video search (optional). The circuit breaker prevents cascading
	// failures when the search API is unavailable; a tripped breaker
	// degrades recommendations to roadmaps without videos.
	var videos recommend.VideoProvider
	var breakerState api.BreakerStateFunc
	if cfg.VideoSearch.Enabled {
		searchClient := videosearch.NewClient(cfg.VideoSearch.BaseURL, cfg.VideoSearch.APIKey, cfg.VideoSearch.Timeout)
		breakerClient := videosearch.NewCircuitBreakerClient(searchClient)
		if err := breakerClient.Ping(ctx); err != nil {
			logging.Warn().Err(err).Msg("Video search API unreachable (will retry)")
		}
		videos = videosearch.NewAggregator(breakerClient, recommend.ScoreVideo, cfg.VideoSearch.QueriesPerSecond)
		breakerState = breakerClient.State
		logging.Info().Str("base_url", cfg.VideoSearch.BaseURL).Msg("Video search initialized")
	} else {
		logging.Info().Msg("Video search disabled (VIDEO_SEARCH_ENABLED=false)")
	}

	// In-process event bus plus a relay that logs domain events.
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	orchestrator := recommend.NewOrchestrator(st, generator, videos, bus)
	tracker := progress.NewTracker(st, bus)

	handler := api.NewHandler(api.HandlerConfig{
		Store:             st,
		Orchestrator:      orchestrator,
		Tracker:           tracker,
		Version:           version,
		GenerationEnabled: cfg.Generation.Enabled,
		BreakerState:      breakerState,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(handler, mwConfig)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build supervisor tree")
	}

	tree.AddEventService(events.NewRelay(bus))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
