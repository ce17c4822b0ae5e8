// Package store persists thinkmapd's users, maps, feedback history and
// revoked refresh tokens in an embedded badger database.
//
// Values are JSON documents under prefixed keys:
//
//	user:name:<username>              -> User
//	user:id:<id>                      -> username
//	map:<owner>:<map id>              -> mindmap.Map
//	feedback:<map id>:<unix nano>:<id> -> feedback.Feedback
//	revoked:<jti>                     -> empty, expires with the token
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/concave-dev/thinkmap/internal/logging"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrVersionConflict    = errors.New("map version conflict")
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Store is safe for concurrent use.
type Store struct {
	db     *badger.DB
	config *Config
}

// Open opens (or creates) the database described by cfg.
func Open(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(logging.BadgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db, config: cfg}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs value log garbage collection every GCInterval until ctx is
// done. It returns immediately for in-memory stores or a zero interval.
func (s *Store) RunGC(ctx context.Context) error {
	if s.config.InMemory || s.config.GCInterval == 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := s.db.RunValueLogGC(s.config.GCDiscardRatio)
			if err == nil {
				logging.Debug("Store: Value log GC completed")
			} else if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn("Store: Value log GC error: %v", err)
			}
		}
	}
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// scanJSON decodes every value under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix string) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []T
	for it.Rewind(); it.Valid(); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// deletePrefix removes every key under prefix.
func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
