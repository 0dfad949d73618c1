// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubtextAI/subtext/internal/analyzer"
	"github.com/SubtextAI/subtext/internal/audit"
	"github.com/SubtextAI/subtext/internal/history"
	"github.com/SubtextAI/subtext/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const analyzerResponse = `{
	"score": 8,
	"risk_level": "Critical",
	"identified_codes": ["guests"],
	"explanation": "Coded call to forcibly remove protestors.",
	"translated_text": "Forcibly remove the protestors from the ground."
}`

type stubAnalyzer struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
	block    chan struct{}
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req analyzer.Request) (string, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.response, s.err
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type credential bool

func (c credential) Present() bool { return bool(c) }

func newTestRouter(t *testing.T, a analyzer.Analyzer, cred audit.CredentialSource) (*gin.Engine, *history.Store) {
	t.Helper()
	kv, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	store := history.NewStore(kv, nil)
	require.NoError(t, store.Load())

	controller := audit.NewController(a, store, cred, nil)
	return NewRouter(NewHandlers(controller, store, nil)), store
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestHandleAudit_Success runs the full happy path over HTTP.
func TestHandleAudit_Success(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, store := newTestRouter(t, stub, credential(true))

	rec := doJSON(router, http.MethodPost, "/v1/audit",
		`{"text": "clear the guests from the ground"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Result audit.Result `json:"result"`
		Tier   string       `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Result.Score)
	assert.Equal(t, "Critical", resp.Result.RiskLevel)
	assert.Equal(t, "Critical", resp.Tier)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "clear the guests from the ground", entries[0].Input)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

// TestHandleAudit_EmptyText rejects at the edge without touching the
// controller or the analyzer.
func TestHandleAudit_EmptyText(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, store := newTestRouter(t, stub, credential(true))

	for _, body := range []string{`{"text": ""}`, `{"text": "   "}`, `{}`} {
		rec := doJSON(router, http.MethodPost, "/v1/audit", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Zero(t, stub.callCount())
	assert.Zero(t, store.Len())
}

// TestHandleAudit_ErrorMapping maps each failure kind to its status.
func TestHandleAudit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		stub   *stubAnalyzer
		cred   credential
		status int
	}{
		{"link failure", &stubAnalyzer{err: errors.New("connection refused")}, true, http.StatusBadGateway},
		{"malformed response", &stubAnalyzer{response: "not json"}, true, http.StatusUnprocessableEntity},
		{"missing credential", &stubAnalyzer{response: analyzerResponse}, false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, store := newTestRouter(t, tt.stub, tt.cred)
			rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "some text"}`)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Zero(t, store.Len(), "failed audits must not be stored")
		})
	}
}

// TestHandleAudit_Busy returns 409 while another audit is in flight.
func TestHandleAudit_Busy(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse, block: make(chan struct{})}
	router, _ := newTestRouter(t, stub, credential(true))

	firstDone := make(chan int, 1)
	go func() {
		rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "first"}`)
		firstDone <- rec.Code
	}()

	require.Eventually(t, func() bool { return stub.callCount() == 1 },
		time.Second, time.Millisecond)

	rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "second"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, stub.callCount())

	close(stub.block)
	assert.Equal(t, http.StatusOK, <-firstDone)
}

// TestHandleHistory lists entries newest first with tiers attached.
func TestHandleHistory(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, _ := newTestRouter(t, stub, credential(true))

	for _, text := range []string{"first", "second"} {
		rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "`+text+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(router, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count   int `json:"count"`
		Entries []struct {
			ID    uint64 `json:"id"`
			Input string `json:"input"`
			Tier  string `json:"tier"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "second", resp.Entries[0].Input)
	assert.Equal(t, "first", resp.Entries[1].Input)
	assert.Equal(t, "Critical", resp.Entries[0].Tier)
}

// TestHandleHistoryEntry covers lookup, bad id, and absence.
func TestHandleHistoryEntry(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, store := newTestRouter(t, stub, credential(true))

	rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "lookup me"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := store.Entries()
	require.Len(t, entries, 1)

	rec = doJSON(router, http.MethodGet, "/v1/history/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/v1/history/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(router, http.MethodGet, "/v1/history/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestHandleClearHistory empties the history.
func TestHandleClearHistory(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, store := newTestRouter(t, stub, credential(true))

	rec := doJSON(router, http.MethodPost, "/v1/audit", `{"text": "to be cleared"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/v1/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, store.Len())
}

// TestHandleHealth reports status and the auditing flag.
func TestHandleHealth(t *testing.T) {
	stub := &stubAnalyzer{response: analyzerResponse}
	router, _ := newTestRouter(t, stub, credential(true))

	rec := doJSON(router, http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["auditing"])
}
