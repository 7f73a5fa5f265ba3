// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

/*
Package api provides the HTTP surface of Skilltrail.

It exposes learner profiles, recommendation generation and retrieval, and
roadmap progress tracking under /api/v1, plus health endpoints and the
Prometheus metrics listener. Routing uses Chi with go-chi/cors and
go-chi/httprate for the outer middleware stack.

All responses use the models.APIResponse envelope. Domain errors from the
recommend, progress, and store packages are mapped to HTTP status codes in
one place (mapDomainError) so handlers stay thin.
*/
package api
