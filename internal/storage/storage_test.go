// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenInMemory verifies in-memory store creation works.
func TestOpenInMemory(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("key", "value"))

	got, ok, err := store.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

// TestGet_Absent verifies absence is reported without error.
func TestGet_Absent(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	got, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

// TestSet_Replaces verifies Set overwrites prior values.
func TestSet_Replaces(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("key", "first"))
	require.NoError(t, store.Set("key", "second"))

	got, ok, err := store.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

// TestDelete verifies removal, including of absent keys.
func TestDelete(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, store.Delete("key"))

	_, ok, err := store.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)

	// Absent key is a no-op, not an error.
	assert.NoError(t, store.Delete("key"))
}

// TestOpen_Persistence verifies data survives a close/reopen cycle.
func TestOpen_Persistence(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Set("history/v1", `[{"id":1}]`))
	require.NoError(t, store.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get("history/v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, got)
}

// TestOpen_RequiresPath verifies persistent mode requires a path.
func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{InMemory: false, Path: ""})
	assert.Error(t, err)
}
