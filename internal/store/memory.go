// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/models"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore implements Store with in-process maps. Values are copied on
// the way in and out so callers cannot alias stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string][]byte
	bundles  map[string][]byte
	progress map[string][]byte // key: learnerID + ":" + roadmapID
	learners map[string][]byte
	versions map[string]uint64 // CAS versions for progress and learner keys
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string][]byte),
		bundles:  make(map[string][]byte),
		progress: make(map[string][]byte),
		learners: make(map[string][]byte),
		versions: make(map[string]uint64),
	}
}

func (s *MemoryStore) GetProfile(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	if err := s.get(s.profiles, learnerID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *MemoryStore) PutProfile(ctx context.Context, profile *models.LearnerProfile) error {
	return s.put(s.profiles, profile.LearnerID, profile)
}

func (s *MemoryStore) GetBundle(ctx context.Context, learnerID string) (*models.RecommendationBundle, error) {
	var bundle models.RecommendationBundle
	if err := s.get(s.bundles, learnerID, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (s *MemoryStore) PutBundle(ctx context.Context, bundle *models.RecommendationBundle) error {
	return s.put(s.bundles, bundle.LearnerID, bundle)
}

func (s *MemoryStore) GetProgress(ctx context.Context, learnerID, roadmapID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := s.get(s.progress, learnerID+":"+roadmapID, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *MemoryStore) PutProgress(ctx context.Context, record *models.ProgressRecord) error {
	key := record.LearnerID + ":" + record.RoadmapID

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions["progress:"+key] != record.Version {
		return ErrVersionConflict
	}

	record.Version++
	data, err := json.Marshal(record)
	if err != nil {
		record.Version--
		return fmt.Errorf("marshal progress record: %w", err)
	}
	s.progress[key] = data
	s.versions["progress:"+key] = record.Version
	return nil
}

func (s *MemoryStore) ListProgress(ctx context.Context, learnerID string) ([]models.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := learnerID + ":"
	var records []models.ProgressRecord
	for key, data := range s.progress {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		var record models.ProgressRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("unmarshal progress record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *MemoryStore) GetLearnerState(ctx context.Context, learnerID string) (*models.LearnerState, error) {
	var state models.LearnerState
	if err := s.get(s.learners, learnerID, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemoryStore) PutLearnerState(ctx context.Context, state *models.LearnerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions["learner:"+state.LearnerID] != state.Version {
		return ErrVersionConflict
	}

	state.Version++
	data, err := json.Marshal(state)
	if err != nil {
		state.Version--
		return fmt.Errorf("marshal learner state: %w", err)
	}
	s.learners[state.LearnerID] = data
	s.versions["learner:"+state.LearnerID] = state.Version
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) get(m map[string][]byte, key string, dst interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := m[key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dst)
}

func (s *MemoryStore) put(m map[string][]byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m[key] = data
	return nil
}
