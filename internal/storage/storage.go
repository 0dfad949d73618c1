// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage provides the durable key-value collaborator backing
// the audit history.
//
// BadgerDB is used for local embedded storage. The store holds a single
// small snapshot per key, accessed synchronously by one local session,
// so the surface is deliberately narrow: Get, Set, Delete.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for a Store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for the given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns configuration for tests: no disk I/O,
// data discarded on close.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a durable string key-value store.
//
// Thread Safety: Safe for concurrent use; BadgerDB transactions provide
// isolation. The audit history uses it single-writer regardless.
type Store struct {
	db *badger.DB
}

// Open creates and opens a Store with the given configuration.
//
// # Description
//
// Opens a BadgerDB database at the configured path, creating the
// directory if it does not exist, or in memory when InMemory is set.
//
// # Inputs
//
//   - cfg: Store configuration. Path is required unless InMemory is true.
//
// # Outputs
//
//   - *Store: The opened store. Caller must call Close() when done.
//   - error: Non-nil if the path is invalid or the database cannot open.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent storage")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create storage directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory is a convenience function for tests.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Get returns the value stored under key.
//
// # Outputs
//
//   - string: The stored value, or "" when absent.
//   - bool: False when the key is absent.
//   - error: Non-nil only for storage failures, never for absence.
func (s *Store) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(value), true, nil
}

// Set stores value under key, replacing any prior value.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
