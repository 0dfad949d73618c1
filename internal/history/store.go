// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package history keeps the bounded, persisted log of past audits.
//
// The store owns an ordered sequence of entries, newest first, capped
// at Capacity. Every mutation persists the full snapshot to the durable
// key-value collaborator under a single fixed key. A snapshot that
// cannot be read back is a recovered condition: the history resets to
// empty and the session continues.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SubtextAI/subtext/internal/audit"
)

// Capacity is the maximum number of entries retained. Older entries
// beyond it are evicted, not archived.
const Capacity = 10

// snapshotKey is the single durable key holding the serialized history.
const snapshotKey = "history/v1"

// KV is the durable key-value collaborator the store persists to.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store is a bounded, persisted, insertion-ordered cache of past audits.
//
// Thread Safety: Safe for concurrent use. The entry sequence is
// exclusively owned by the store; callers only see copies.
type Store struct {
	mu      sync.Mutex
	entries []audit.Entry // newest first, len <= Capacity
	nextID  uint64
	kv      KV
	logger  *slog.Logger
}

// NewStore creates a Store backed by the given collaborator.
//
// The store starts empty; call Load to read the persisted snapshot.
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		nextID: 1,
		kv:     kv,
		logger: logger,
	}
}

// Load reads the persisted snapshot.
//
// # Description
//
// A missing snapshot or one that fails to parse as an entry sequence
// initializes the history to empty. That is a recovered condition,
// never a fatal error: the only error returned is a storage read
// failure. The id counter resumes above the highest persisted id so
// ids stay monotonic across sessions.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(snapshotKey)
	if err != nil {
		return fmt.Errorf("load history snapshot: %w", err)
	}
	if !ok {
		s.entries = nil
		return nil
	}

	var entries []audit.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("history snapshot unreadable, resetting to empty",
			"error", err)
		s.entries = nil
		return nil
	}

	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	s.entries = entries
	for _, e := range entries {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	return nil
}

// Push prepends an entry and persists the resulting sequence.
//
// # Description
//
// An entry with a zero ID is assigned the next monotonic id. The
// sequence is truncated to Capacity before persisting; the snapshot
// replaces any prior one. The returned entry carries the assigned id.
//
// # Outputs
//
//   - audit.Entry: The stored entry, id populated.
//   - error: Non-nil if persisting fails. The in-memory sequence is
//     already updated in that case; the next successful push repairs
//     the snapshot.
func (s *Store) Push(entry audit.Entry) (audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == 0 {
		entry.ID = s.nextID
	}
	if entry.ID >= s.nextID {
		s.nextID = entry.ID + 1
	}

	s.entries = append([]audit.Entry{entry}, s.entries...)
	if len(s.entries) > Capacity {
		s.entries = s.entries[:Capacity]
	}

	if err := s.persistLocked(); err != nil {
		return entry, err
	}
	return entry, nil
}

// Clear empties the history and removes the persisted snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.kv.Delete(snapshotKey); err != nil {
		return fmt.Errorf("clear history snapshot: %w", err)
	}
	return nil
}

// Select returns the entry with the given id without mutating order or
// contents. The second return is false when no entry matches.
func (s *Store) Select(id uint64) (audit.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return audit.Entry{}, false
}

// Entries returns a copy of the sequence, newest first.
func (s *Store) Entries() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]audit.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the current number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode history snapshot: %w", err)
	}
	if err := s.kv.Set(snapshotKey, string(data)); err != nil {
		return fmt.Errorf("persist history snapshot: %w", err)
	}
	return nil
}
