// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package supervisor builds the suture/v4 supervision tree for the
// Skilltrail server.
//
// The tree has a root supervisor with two child layers: the event layer
// (in-process event relay) and the API layer (HTTP server). Services
// implement suture.Service and are restarted with exponential backoff
// when they fail. Suture events are logged through sutureslog.
package supervisor
