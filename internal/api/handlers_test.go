// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/models"
	"github.com/skilltrail/skilltrail/internal/progress"
	"github.com/skilltrail/skilltrail/internal/recommend"
	"github.com/skilltrail/skilltrail/internal/store"
)

const generationFixture = `{
	"roadmaps": [
		{
			"id": "roadmap-1",
			"title": "Go Backend Fundamentals",
			"description": "Core Go skills",
			"difficulty": "beginner",
			"estimatedTime": "6 weeks",
			"matchScore": 92,
			"reasons": ["Matches your Go interest"]
		}
	],
	"resources": [
		{
			"id": "resource-1",
			"title": "A Tour of Go",
			"type": "documentation",
			"source": "go.dev",
			"readTime": "2 hours",
			"difficulty": "beginner",
			"url": "https://go.dev/tour/"
		}
	]
}`

// stubGenerator returns a fixed completion.
type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, g.err
}

// newTestServer builds a full router over in-memory dependencies.
func newTestServer(t *testing.T, gen recommend.Generator) (*httptest.Server, store.Store) {
	t.Helper()

	s := store.NewMemoryStore()
	orch := recommend.NewOrchestrator(s, gen, nil, nil)
	tracker := progress.NewTracker(s, nil)

	handler := NewHandler(HandlerConfig{
		Store:             s,
		Orchestrator:      orch,
		Tracker:           tracker,
		Version:           "test",
		GenerationEnabled: gen != nil,
	})

	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.RateLimitDisabled = true

	srv := httptest.NewServer(NewRouter(handler, mwConfig).Setup())
	t.Cleanup(srv.Close)
	return srv, s
}

// doJSON issues a request with a JSON body and decodes the envelope.
func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, *models.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, &envelope
}

// dataAs re-marshals the envelope data into a concrete type.
func dataAs(t *testing.T, envelope *models.APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func validProfileBody() map[string]interface{} {
	return map[string]interface{}{
		"experienceLevel": "beginner",
		"techInterests":   []string{"go"},
		"careerGoals":     []string{"backend engineer"},
		"learningStyle":   "hands-on",
	}
}

func TestProfilePutAndGet(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{response: generationFixture})

	resp, envelope := doJSON(t, http.MethodPut, srv.URL+"/api/v1/learners/learner-1/profile", validProfileBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT profile: status %d, error %+v", resp.StatusCode, envelope.Error)
	}

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/v1/learners/learner-1/profile", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET profile: status %d", resp.StatusCode)
	}

	var profile models.LearnerProfile
	dataAs(t, envelope, &profile)
	if profile.LearnerID != "learner-1" || profile.ExperienceLevel != "beginner" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestProfileGetMissing(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/learners/nobody/profile", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected error: %+v", envelope.Error)
	}
}

func TestProfilePutValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing interests", map[string]interface{}{"experienceLevel": "beginner"}},
		{"bad experience level", map[string]interface{}{"experienceLevel": "wizard", "techInterests": []string{"go"}}},
		{"bad learning style", map[string]interface{}{"experienceLevel": "beginner", "techInterests": []string{"go"}, "learningStyle": "osmosis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := doJSON(t, http.MethodPut, srv.URL+"/api/v1/learners/learner-1/profile", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (error %+v)", resp.StatusCode, envelope.Error)
			}
		})
	}
}

func TestGenerateAndFetchRecommendations(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{response: generationFixture})

	// No bundle before generation.
	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/learners/learner-1/recommendations", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before generation, got %d", resp.StatusCode)
	}

	if resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/v1/learners/learner-1/profile", validProfileBody()); resp.StatusCode != http.StatusOK {
		t.Fatalf("seed profile failed: %d", resp.StatusCode)
	}

	resp, envelope = doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/learner-1/recommendations/generate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: status %d, error %+v", resp.StatusCode, envelope.Error)
	}

	var bundle models.RecommendationBundle
	dataAs(t, envelope, &bundle)
	if len(bundle.Roadmaps) != 1 || len(bundle.Resources) != 1 {
		t.Errorf("unexpected bundle: %+v", bundle)
	}

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/v1/learners/learner-1/recommendations", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch: status %d", resp.StatusCode)
	}
	var fetched models.RecommendationBundle
	dataAs(t, envelope, &fetched)
	if fetched.ID != bundle.ID {
		t.Errorf("fetched bundle %s, want %s", fetched.ID, bundle.ID)
	}
}

func TestGenerateWithoutProfile(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{response: generationFixture})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/nobody/recommendations/generate", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGenerateDisabledReturns503(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	if resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/v1/learners/learner-1/profile", validProfileBody()); resp.StatusCode != http.StatusOK {
		t.Fatalf("seed profile failed: %d", resp.StatusCode)
	}

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/learner-1/recommendations/generate", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "GENERATION_DISABLED" {
		t.Errorf("unexpected error: %+v", envelope.Error)
	}
}

func TestGenerateUpstreamGarbageReturns502(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{response: "sorry, no JSON today"})

	if resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/v1/learners/learner-1/profile", validProfileBody()); resp.StatusCode != http.StatusOK {
		t.Fatalf("seed profile failed: %d", resp.StatusCode)
	}

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/learner-1/recommendations/generate", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "GENERATION_FAILED" {
		t.Errorf("unexpected error: %+v", envelope.Error)
	}
}

func TestProgressFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1/learners/learner-1"

	// Start a roadmap.
	resp, envelope := doJSON(t, http.MethodPost, base+"/roadmaps/roadmap-1/start", map[string]int{"totalSteps": 4})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: status %d, error %+v", resp.StatusCode, envelope.Error)
	}

	// Starting again conflicts.
	resp, envelope = doJSON(t, http.MethodPost, base+"/roadmaps/roadmap-1/start", map[string]int{"totalSteps": 4})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("restart: expected 409, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "ALREADY_STARTED" {
		t.Errorf("unexpected error: %+v", envelope.Error)
	}

	// Complete a step.
	resp, envelope = doJSON(t, http.MethodPost, base+"/roadmaps/roadmap-1/steps", map[string]interface{}{"stepIndex": 0, "completed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: status %d, error %+v", resp.StatusCode, envelope.Error)
	}
	var toggled toggleStepResponse
	dataAs(t, envelope, &toggled)
	if toggled.State.TotalXP != 10 || toggled.Progress.ProgressPercent != 25 {
		t.Errorf("unexpected toggle result: %+v", toggled)
	}

	// Out-of-range step.
	resp, envelope = doJSON(t, http.MethodPost, base+"/roadmaps/roadmap-1/steps", map[string]interface{}{"stepIndex": 9, "completed": true})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range: expected 400, got %d", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "STEP_OUT_OF_RANGE" {
		t.Errorf("unexpected error: %+v", envelope.Error)
	}

	// Toggle on an unstarted roadmap.
	resp, envelope = doJSON(t, http.MethodPost, base+"/roadmaps/other/steps", map[string]interface{}{"stepIndex": 0, "completed": true})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unstarted: expected 404, got %d", resp.StatusCode)
	}

	// Overview shows the roadmap and XP.
	resp, envelope = doJSON(t, http.MethodGet, base+"/progress", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("overview: status %d", resp.StatusCode)
	}
	var overview progressOverviewResponse
	dataAs(t, envelope, &overview)
	if len(overview.Roadmaps) != 1 || overview.State.TotalXP != 10 {
		t.Errorf("unexpected overview: %+v", overview)
	}
}

func TestStartRoadmapValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/learner-1/roadmaps/roadmap-1/start", map[string]int{"totalSteps": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for zero steps, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/learners/learner-1/roadmaps/roadmap-1/start", map[string]string{"totalSteps": "four"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric steps, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{response: generationFixture})

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
	var health models.HealthStatus
	dataAs(t, envelope, &health)
	if health.Status != "healthy" || !health.StoreConnected || !health.GenerationEnabled {
		t.Errorf("unexpected health: %+v", health)
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: status %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on response")
	}
}
