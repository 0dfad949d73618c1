// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SubtextAI/subtext/internal/analyzer"
)

// History is the slice of the history store the controller needs: it
// only ever pushes, never reads or mutates the sequence directly.
type History interface {
	Push(entry Entry) (Entry, error)
}

// CredentialSource reports whether the analyzer credential is
// configured. The check is synchronous and happens before any
// analyzer contact.
type CredentialSource interface {
	Present() bool
}

// Controller orchestrates one audit at a time.
//
// # State machine
//
// Idle → Auditing → Idle. The analyzer call is the sole suspending
// step; while it is in flight the controller refuses new submissions
// as silent no-ops. There is no queuing and no cancellation of the
// in-flight audit.
//
// # Thread Safety
//
// Safe for concurrent use. The Auditing gate is a mutex-guarded flag;
// losers of the race observe the no-op outcome.
type Controller struct {
	analyzer analyzer.Analyzer
	history  History
	creds    CredentialSource
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	auditing bool
}

// NewController creates a Controller.
//
// # Inputs
//
//   - a: The analyzer backend. May be nil only while creds reads as
//     absent; the credential check runs before any analyzer contact.
//   - h: The history store receiving successful audits. Must not be nil.
//   - creds: Credential presence check. A nil source reads as absent.
//   - logger: Optional; defaults to slog.Default().
func NewController(a analyzer.Analyzer, h History, creds CredentialSource, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		analyzer: a,
		history:  h,
		creds:    creds,
		logger:   logger,
		now:      time.Now,
	}
}

// Auditing reports whether an audit is currently in flight.
func (c *Controller) Auditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auditing
}

// Submit runs one full audit of the given text.
//
// # Description
//
// Input whose trimmed form is empty is silently rejected: no analyzer
// call, no state change, nil result and nil error. The same silent
// outcome applies while another audit is in flight. Otherwise the
// credential is checked, the analyzer is invoked exactly once with the
// fixed contract, and its output is validated strictly against the
// result schema. Only a fully valid result is recorded in history and
// returned.
//
// # Outputs
//
//   - *Result: The assessment, or nil when rejected or failed.
//   - error: Nil on success and on silent rejection. Otherwise one of
//     *ConfigurationError, *LinkError or *MalformedResponseError.
func (c *Controller) Submit(ctx context.Context, input string) (*Result, error) {
	if strings.TrimSpace(input) == "" {
		c.logger.Debug("empty input, audit skipped")
		return nil, nil
	}

	c.mu.Lock()
	if c.auditing {
		c.mu.Unlock()
		c.logger.Debug("audit already in flight, submission ignored")
		return nil, nil
	}
	c.auditing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.auditing = false
		c.mu.Unlock()
	}()

	if c.creds == nil || !c.creds.Present() {
		c.logger.Error("analyzer credential is not configured")
		return nil, &ConfigurationError{Missing: "analyzer credential"}
	}

	start := c.now()
	raw, err := c.analyzer.Analyze(ctx, analyzer.NewRequest(input))
	if err != nil {
		c.logger.Error("analyzer call failed", "error", err)
		return nil, &LinkError{Wrapped: err}
	}

	result, err := decodeResult(raw)
	if err != nil {
		c.logger.Error("analyzer response rejected", "error", err)
		return nil, &MalformedResponseError{Wrapped: err}
	}

	entry, err := c.history.Push(Entry{
		Input:     input,
		Timestamp: c.now(),
		Result:    result,
	})
	if err != nil {
		// The audit itself succeeded; a persistence failure only costs
		// durability of this history entry.
		c.logger.Warn("failed to persist history entry", "error", err)
	}

	c.logger.Info("audit completed",
		"entry_id", entry.ID,
		"score", result.Score,
		"risk_level", result.RiskLevel,
		"duration", c.now().Sub(start))
	return &result, nil
}
