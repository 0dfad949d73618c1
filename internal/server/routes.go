// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server exposes the audit core over HTTP.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine with all routes registered.
//
// Endpoints:
//
//	POST   /v1/audit        - run one audit
//	GET    /v1/history      - list past audits, newest first
//	GET    /v1/history/:id  - re-display one past audit
//	DELETE /v1/history      - clear the history
//	GET    /v1/health       - liveness
//	GET    /metrics         - prometheus metrics
func NewRouter(handlers *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	v1 := router.Group("/v1")
	{
		v1.POST("/audit", handlers.HandleAudit)
		v1.GET("/history", handlers.HandleHistory)
		v1.GET("/history/:id", handlers.HandleHistoryEntry)
		v1.DELETE("/history", handlers.HandleClearHistory)
		v1.GET("/health", handlers.HandleHealth)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestID assigns a correlation id when the client did not send one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
