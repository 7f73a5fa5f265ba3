// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skilltrail/skilltrail/internal/middleware"
)

// Router assembles the HTTP handler tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router over the handler set. mwConfig may be nil for
// defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// chiAdapt adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler, so the middleware package's handlers
// work with r.Use().
func chiAdapt(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes using Chi.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())      // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring probes are never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Learner Endpoints
	// ========================
	r.Route("/api/v1/learners/{learnerID}", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiAdapt(middleware.PrometheusMetrics))
		r.Use(chiAdapt(middleware.Compression))

		r.Get("/profile", router.handler.GetProfile)
		r.Put("/profile", router.handler.PutProfile)

		// Generation is expensive; its own tighter limit.
		r.With(router.chiMiddleware.RateLimitGeneration()).
			Post("/recommendations/generate", router.handler.GenerateRecommendations)
		r.Get("/recommendations", router.handler.GetRecommendations)

		r.Get("/progress", router.handler.ProgressOverview)
		r.Post("/roadmaps/{roadmapID}/start", router.handler.StartRoadmap)
		r.Post("/roadmaps/{roadmapID}/steps", router.handler.ToggleStep)
	})

	// ========================
	// Metrics Endpoint
	// ========================
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
