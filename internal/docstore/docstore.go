// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package docstore implements a partitioned JSON document store on BadgerDB.
// Profiles, the user registry, and sessions share one database; partitions
// isolate each user's documents and can be listed and dropped as a unit.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
)

// Errors
var (
	// ErrNotFound is returned when a document or partition does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("document store closed")
)

// Key prefixes for BadgerDB storage. Documents live under
// doc:{partition}:{docID}; the partition registry under part:{partition}
// makes listing partitions cheap without scanning every document.
const (
	docKeyPrefix  = "doc:"
	partKeyPrefix = "part:"
)

// Store is a partitioned JSON document store on BadgerDB.
//
// Each user gets a partition; documents within a partition are addressed by
// ID. All values are JSON-encoded. The store is safe for concurrent use.
type Store struct {
	db       *badger.DB
	inMemory bool
}

// Open creates (or opens) a document store at the configured path.
// With cfg.InMemory set, Badger keeps everything in memory, which is the mode
// used by tests and credential-free local runs.
func Open(cfg config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Document store opened")

	return &Store{db: db, inMemory: cfg.InMemory}, nil
}

// DB exposes the underlying BadgerDB handle so that co-located stores
// (sessions) can share a single database.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Put stores a document in a partition, creating the partition on first use.
func (s *Store) Put(ctx context.Context, partition, docID string, doc interface{}) error {
	start := time.Now()
	err := s.put(partition, docID, doc)
	metrics.RecordStoreOp("put", time.Since(start), err)
	return err
}

func (s *Store) put(partition, docID string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		docKey := []byte(docKeyPrefix + partition + ":" + docID)
		if err := txn.Set(docKey, data); err != nil {
			return fmt.Errorf("set document: %w", err)
		}

		// Register the partition on first write
		partKey := []byte(partKeyPrefix + partition)
		_, err := txn.Get(partKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			if err := txn.Set(partKey, []byte{}); err != nil {
				return fmt.Errorf("register partition: %w", err)
			}
			metrics.StorePartitions.Inc()
			return nil
		}
		return err
	})
}

// Get retrieves a document from a partition and unmarshals it into out.
// Returns ErrNotFound when the document does not exist.
func (s *Store) Get(ctx context.Context, partition, docID string, out interface{}) error {
	start := time.Now()
	err := s.get(partition, docID, out)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOp("get", time.Since(start), nil)
	} else {
		metrics.RecordStoreOp("get", time.Since(start), err)
	}
	return err
}

func (s *Store) get(partition, docID string, out interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		key := []byte(docKeyPrefix + partition + ":" + docID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

// Delete removes a document from a partition. Deleting a missing document is
// not an error.
func (s *Store) Delete(ctx context.Context, partition, docID string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(docKeyPrefix + partition + ":" + docID)
		if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	metrics.RecordStoreOp("delete", time.Since(start), err)
	return err
}

// ScanPartition calls fn for every document in a partition with its ID and
// raw JSON value. Iteration stops at the first error from fn.
func (s *Store) ScanPartition(ctx context.Context, partition string, fn func(docID string, data []byte) error) error {
	start := time.Now()
	err := s.scanPartition(partition, fn)
	metrics.RecordStoreOp("scan", time.Since(start), err)
	return err
}

func (s *Store) scanPartition(partition string, fn func(docID string, data []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docKeyPrefix + partition + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			docID := string(item.Key()[len(prefix):])

			err := item.Value(func(val []byte) error {
				// Copy: fn may retain the slice past this transaction
				data := make([]byte, len(val))
				copy(data, val)
				return fn(docID, data)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPartitions returns the names of all partitions in the store.
func (s *Store) ListPartitions(ctx context.Context) ([]string, error) {
	start := time.Now()

	var partitions []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(partKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			partitions = append(partitions, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})

	metrics.RecordStoreOp("list_partitions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	metrics.StorePartitions.Set(float64(len(partitions)))
	return partitions, nil
}

// DropPartition removes a partition and every document in it.
// Dropping a missing partition is not an error.
func (s *Store) DropPartition(ctx context.Context, partition string) error {
	start := time.Now()
	err := s.dropPartition(partition)
	metrics.RecordStoreOp("drop_partition", time.Since(start), err)
	return err
}

func (s *Store) dropPartition(partition string) error {
	// Collect document keys first; Badger forbids writes during iteration
	// within a single transaction when the set is large, and partition sizes
	// are unbounded.
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docKeyPrefix + partition + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan partition for drop: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}

	removedRegistration := false
	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(partKeyPrefix + partition))
		return err
	})
	if err == nil {
		if err := wb.Delete([]byte(partKeyPrefix + partition)); err != nil {
			return fmt.Errorf("delete partition registration: %w", err)
		}
		removedRegistration = true
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check partition registration: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush partition delete: %w", err)
	}

	if removedRegistration {
		metrics.StorePartitions.Dec()
	}

	logging.Debug().
		Str("partition", partition).
		Int("documents", len(keys)).
		Msg("Partition dropped")
	return nil
}

// StartGC runs Badger value log garbage collection on an interval until the
// context is canceled. No-op for in-memory stores.
func (s *Store) StartGC(ctx context.Context, interval time.Duration) {
	if s.inMemory {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runGC()
			}
		}
	}()
}

// runGC runs value log GC until no more cleanup is possible.
func (s *Store) runGC() {
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return
		}
		if err != nil {
			logging.Warn().Err(err).Msg("Badger value log GC failed")
			return
		}
	}
}

// Ping reports whether the store is open and usable. Health checks call this.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	logging.Info().Msg("Closing document store")
	return s.db.Close()
}
