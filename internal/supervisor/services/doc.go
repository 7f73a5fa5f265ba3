// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package services contains suture.Service wrappers for components that
// were not written with supervision in mind, such as net/http's
// blocking ListenAndServe loop.
package services
