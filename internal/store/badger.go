// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/metrics"
	"github.com/skilltrail/skilltrail/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	profileKeyPrefix  = "profile:"
	bundleKeyPrefix   = "bundle:"
	progressKeyPrefix = "progress:"
	learnerKeyPrefix  = "learner:"
)

// Ensure BadgerStore implements Store
var _ Store = (*BadgerStore)(nil)

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db *badger.DB
}

// BadgerConfig holds BadgerDB open options.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests and ephemeral runs.
	InMemory bool

	// SyncWrites forces fsync on every write.
	SyncWrites bool
}

// OpenBadger opens (or creates) a BadgerDB-backed store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Badger store opened")

	return &BadgerStore{db: db}, nil
}

// resultLabel maps a store error to its metric result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrVersionConflict):
		return "conflict"
	default:
		return "error"
	}
}

func progressKey(learnerID, roadmapID string) []byte {
	return []byte(progressKeyPrefix + learnerID + ":" + roadmapID)
}

// GetProfile retrieves a learner profile.
func (s *BadgerStore) GetProfile(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	if err := s.getJSON(profileKeyPrefix+learnerID, &profile); err != nil {
		metrics.RecordStoreOperation("get_profile", resultLabel(err))
		return nil, err
	}
	metrics.RecordStoreOperation("get_profile", resultLabel(nil))
	return &profile, nil
}

// PutProfile stores a learner profile, replacing any previous version.
func (s *BadgerStore) PutProfile(ctx context.Context, profile *models.LearnerProfile) error {
	err := s.putJSON(profileKeyPrefix+profile.LearnerID, profile)
	metrics.RecordStoreOperation("put_profile", resultLabel(err))
	return err
}

// GetBundle retrieves the current recommendation bundle for a learner.
func (s *BadgerStore) GetBundle(ctx context.Context, learnerID string) (*models.RecommendationBundle, error) {
	var bundle models.RecommendationBundle
	if err := s.getJSON(bundleKeyPrefix+learnerID, &bundle); err != nil {
		metrics.RecordStoreOperation("get_bundle", resultLabel(err))
		return nil, err
	}
	metrics.RecordStoreOperation("get_bundle", resultLabel(nil))
	return &bundle, nil
}

// PutBundle stores a recommendation bundle, replacing the previous one.
func (s *BadgerStore) PutBundle(ctx context.Context, bundle *models.RecommendationBundle) error {
	err := s.putJSON(bundleKeyPrefix+bundle.LearnerID, bundle)
	metrics.RecordStoreOperation("put_bundle", resultLabel(err))
	return err
}

// GetProgress retrieves a progress record for a learner/roadmap pair.
func (s *BadgerStore) GetProgress(ctx context.Context, learnerID, roadmapID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := s.getJSON(string(progressKey(learnerID, roadmapID)), &record); err != nil {
		metrics.RecordStoreOperation("get_progress", resultLabel(err))
		return nil, err
	}
	metrics.RecordStoreOperation("get_progress", resultLabel(nil))
	return &record, nil
}

// PutProgress writes a progress record with a compare-and-swap on Version.
func (s *BadgerStore) PutProgress(ctx context.Context, record *models.ProgressRecord) error {
	key := progressKey(record.LearnerID, record.RoadmapID)
	err := s.casUpdate(key, record.Version, func(nextVersion uint64) ([]byte, error) {
		record.Version = nextVersion
		return json.Marshal(record)
	}, func(stored []byte) (uint64, error) {
		var current models.ProgressRecord
		if err := json.Unmarshal(stored, &current); err != nil {
			return 0, err
		}
		return current.Version, nil
	})
	metrics.RecordStoreOperation("put_progress", resultLabel(err))
	return err
}

// ListProgress returns all progress records for a learner.
func (s *BadgerStore) ListProgress(ctx context.Context, learnerID string) ([]models.ProgressRecord, error) {
	prefix := []byte(progressKeyPrefix + learnerID + ":")
	var records []models.ProgressRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record models.ProgressRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("unmarshal progress record: %w", err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	metrics.RecordStoreOperation("list_progress", resultLabel(err))
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetLearnerState retrieves a learner's XP state.
func (s *BadgerStore) GetLearnerState(ctx context.Context, learnerID string) (*models.LearnerState, error) {
	var state models.LearnerState
	if err := s.getJSON(learnerKeyPrefix+learnerID, &state); err != nil {
		metrics.RecordStoreOperation("get_learner_state", resultLabel(err))
		return nil, err
	}
	metrics.RecordStoreOperation("get_learner_state", resultLabel(nil))
	return &state, nil
}

// PutLearnerState writes learner XP state with a compare-and-swap on Version.
func (s *BadgerStore) PutLearnerState(ctx context.Context, state *models.LearnerState) error {
	key := []byte(learnerKeyPrefix + state.LearnerID)
	err := s.casUpdate(key, state.Version, func(nextVersion uint64) ([]byte, error) {
		state.Version = nextVersion
		return json.Marshal(state)
	}, func(stored []byte) (uint64, error) {
		var current models.LearnerState
		if err := json.Unmarshal(stored, &current); err != nil {
			return 0, err
		}
		return current.Version, nil
	})
	metrics.RecordStoreOperation("put_learner_state", resultLabel(err))
	return err
}

// Ping verifies the database is open and readable.
func (s *BadgerStore) Ping(ctx context.Context) error {
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// getJSON reads a key into dst, mapping missing keys to ErrNotFound.
func (s *BadgerStore) getJSON(key string, dst interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dst)
		})
	})
}

// putJSON marshals value and writes it under key.
func (s *BadgerStore) putJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// casUpdate performs a versioned write inside a single transaction.
// expected must match the stored version (0 when the key is absent);
// marshal receives the incremented version to embed in the new value.
func (s *BadgerStore) casUpdate(
	key []byte,
	expected uint64,
	marshal func(nextVersion uint64) ([]byte, error),
	storedVersion func(stored []byte) (uint64, error),
) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			if expected != 0 {
				return ErrVersionConflict
			}
		case err != nil:
			return fmt.Errorf("get %s: %w", key, err)
		default:
			var current uint64
			if err := item.Value(func(val []byte) error {
				var verr error
				current, verr = storedVersion(val)
				return verr
			}); err != nil {
				return err
			}
			if current != expected {
				return ErrVersionConflict
			}
		}

		data, err := marshal(expected + 1)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		return txn.Set(key, data)
	})
}
