// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SubtextAI/subtext/internal/audit"
	"github.com/SubtextAI/subtext/internal/classifier"
	"github.com/SubtextAI/subtext/internal/history"
)

// Handlers serves the audit core over HTTP.
type Handlers struct {
	controller *audit.Controller
	history    *history.Store
	logger     *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(controller *audit.Controller, store *history.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		controller: controller,
		history:    store,
		logger:     logger,
	}
}

// auditRequest is the POST /v1/audit body.
type auditRequest struct {
	Text string `json:"text"`
}

// auditResponse pairs the assessment with its display tier.
type auditResponse struct {
	Result audit.Result    `json:"result"`
	Tier   classifier.Tier `json:"tier"`
}

// HandleAudit runs one audit.
//
// Status codes:
//
//	200 - audit completed, body is auditResponse
//	400 - body unreadable or text empty after trimming
//	409 - another audit is in flight
//	422 - analyzer responded outside the result schema
//	502 - analyzer unreachable or erroring
//	503 - analyzer credential not configured
func (h *Handlers) HandleAudit(c *gin.Context) {
	start := time.Now()

	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		observeAudit("bad_request", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		observeAudit("bad_request", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}

	result, err := h.controller.Submit(c.Request.Context(), req.Text)
	if err != nil {
		status, outcome := statusFor(err)
		observeAudit(outcome, time.Since(start))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		// Non-empty input rejected silently means the controller is busy.
		observeAudit("busy", time.Since(start))
		c.JSON(http.StatusConflict, gin.H{"error": "an audit is already in flight"})
		return
	}

	observeAudit("ok", time.Since(start))
	c.JSON(http.StatusOK, auditResponse{
		Result: *result,
		Tier:   classifier.TierOf(result.RiskLevel),
	})
}

func statusFor(err error) (int, string) {
	var cfgErr *audit.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusServiceUnavailable, "configuration_error"
	}
	var malErr *audit.MalformedResponseError
	if errors.As(err, &malErr) {
		return http.StatusUnprocessableEntity, "malformed_response"
	}
	var linkErr *audit.LinkError
	if errors.As(err, &linkErr) {
		return http.StatusBadGateway, "link_failure"
	}
	return http.StatusInternalServerError, "error"
}

// historyEntry decorates an entry with its display tier.
type historyEntry struct {
	audit.Entry
	Tier classifier.Tier `json:"tier"`
}

// HandleHistory lists past audits, newest first.
func (h *Handlers) HandleHistory(c *gin.Context) {
	entries := h.history.Entries()
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{Entry: e, Tier: classifier.TierOf(e.RiskLevel)})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out, "count": len(out)})
}

// HandleHistoryEntry re-displays one past audit by id.
func (h *Handlers) HandleHistoryEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history id"})
		return
	}
	entry, ok := h.history.Select(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no history entry with that id"})
		return
	}
	c.JSON(http.StatusOK, historyEntry{Entry: entry, Tier: classifier.TierOf(entry.RiskLevel)})
}

// HandleClearHistory empties the history and its persisted snapshot.
// An in-flight audit is unaffected; its entry will land in the cleared
// history when it completes.
func (h *Handlers) HandleClearHistory(c *gin.Context) {
	if err := h.history.Clear(); err != nil {
		h.logger.Error("failed to clear history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"auditing": h.controller.Auditing(),
	})
}
