// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subtext",
		Name:      "audits_total",
		Help:      "Audit submissions by outcome.",
	}, []string{"outcome"})

	auditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "subtext",
		Name:      "audit_duration_seconds",
		Help:      "End-to-end audit handler latency by outcome.",
		Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})
)

func observeAudit(outcome string, elapsed time.Duration) {
	auditsTotal.WithLabelValues(outcome).Inc()
	auditDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
