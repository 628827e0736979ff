// Package pebblestore provides a pebble-backed local ObjectStore. It
// exists for development and integration tests: same contract as the
// remote backend, including metadata ceiling enforcement, without a
// network in the loop.
package pebblestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"

	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/forattini-dev/s3db/pkg/storage"
)

// Key layout inside pebble: metadata and body live under separate
// prefixes so HeadObject never touches body bytes.
const (
	metaPrefix = "m!"
	bodyPrefix = "b!"
)

// Config holds options for Open.
type Config struct {
	Path   string
	Limits resolver.Limits
	Logger zerolog.Logger
}

// Store is a pebble-backed ObjectStore.
type Store struct {
	db     *pebble.DB
	limits resolver.Limits
	log    zerolog.Logger
}

// Open opens (or creates) the store at cfg.Path.
func Open(cfg Config) (*Store, error) {
	db, err := pebble.Open(cfg.Path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store: %w", err)
	}
	limits := cfg.Limits
	if limits.MetadataLimit == 0 {
		limits = resolver.DefaultLimits()
	}
	return &Store{db: db, limits: limits, log: cfg.Logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PutObject(_ context.Context, key string, metadata map[string]string, body []byte) error {
	if !resolver.Fits(metadata, s.limits) {
		return &storage.StoreError{Message: fmt.Sprintf("metadata size %d exceeds backend limit %d",
			resolver.MetadataSize(metadata, s.limits), s.limits.MetadataLimit)}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set([]byte(metaPrefix+key), raw, nil); err != nil {
		return err
	}
	if body != nil {
		if err := batch.Set([]byte(bodyPrefix+key), body, nil); err != nil {
			return err
		}
	} else if err := batch.Delete([]byte(bodyPrefix+key), nil); err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to commit object write: %w", err)
	}
	s.log.Debug().Str("key", key).Int("body_bytes", len(body)).Msg("put object")
	return nil
}

func (s *Store) GetObject(ctx context.Context, key string) (map[string]string, []byte, error) {
	metadata, err := s.HeadObject(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	raw, closer, err := s.db.Get([]byte(bodyPrefix + key))
	if err == pebble.ErrNotFound {
		return metadata, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	body := append([]byte(nil), raw...)
	closer.Close()
	return metadata, body, nil
}

func (s *Store) HeadObject(_ context.Context, key string) (map[string]string, error) {
	raw, closer, err := s.db.Get([]byte(metaPrefix + key))
	if err == pebble.ErrNotFound {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var metadata map[string]string
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("corrupt metadata for key %q: %w", key, err)
	}
	return metadata, nil
}

func (s *Store) CopyObject(ctx context.Context, key string, newMetadata map[string]string) error {
	if _, err := s.HeadObject(ctx, key); err != nil {
		return err
	}
	if !resolver.Fits(newMetadata, s.limits) {
		return &storage.StoreError{Message: fmt.Sprintf("metadata size %d exceeds backend limit %d",
			resolver.MetadataSize(newMetadata, s.limits), s.limits.MetadataLimit)}
	}
	raw, err := json.Marshal(newMetadata)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}
	if err := s.db.Set([]byte(metaPrefix+key), raw, pebble.Sync); err != nil {
		return err
	}
	s.log.Debug().Str("key", key).Msg("copy object metadata")
	return nil
}

func (s *Store) DeleteObject(_ context.Context, key string) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete([]byte(metaPrefix+key), nil); err != nil {
		return err
	}
	if err := batch.Delete([]byte(bodyPrefix+key), nil); err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to commit object delete: %w", err)
	}
	s.log.Debug().Str("key", key).Msg("delete object")
	return nil
}

func (s *Store) ListKeys(_ context.Context, prefix string) ([]string, error) {
	lower := []byte(metaPrefix + prefix)
	upper := append(append([]byte(nil), lower...), 0xff)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()[len(metaPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return keys, nil
}
