// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// Package config loads and validates server configuration.
//
// Configuration is layered with Koanf v2: struct defaults, then an
// optional YAML file, then environment variables. Later layers win.
// The config file is looked up via CONFIG_PATH or the standard search
// paths in DefaultConfigPaths.
//
// Sections:
//   - server: HTTP listener (host, port, timeout, environment)
//   - logging: zerolog level and output format
//   - store: embedded Badger database
//   - generation: LLM completion client for roadmap recommendations
//   - video_search: external video search API client
//   - security: rate limiting, CORS origins, trusted proxies
//
// Generation and video search are both disabled by default; each
// requires its own API key when enabled. Validation runs after all
// layers merge, so a bad env override fails at startup rather than at
// first use.
package config
