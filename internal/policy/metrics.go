// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package policy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecisionsTotal counts access decisions by role, outcome, and reason.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgate_access_decisions_total",
			Help: "Total number of document access decisions",
		},
		[]string{"role", "decision", "reason"},
	)

	// DeniedTotal counts denials by role and reason, for alerting.
	DeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgate_access_denied_total",
			Help: "Total number of document access denials",
		},
		[]string{"role", "reason"},
	)

	// CheckDuration tracks end-to-end access check latency, including
	// the booking relationship lookup when one runs.
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgate_access_check_duration_seconds",
			Help:    "Duration of document access checks in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"role", "relationship_checked"},
	)

	// CheckErrorsTotal counts access check failures (not denials).
	CheckErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgate_access_check_errors_total",
			Help: "Total number of access check errors",
		},
		[]string{"error_type"},
	)
)

// RecordDecision records an access decision with its latency.
func RecordDecision(role string, d Decision, duration time.Duration, relationshipChecked bool) {
	DecisionsTotal.WithLabelValues(role, string(d.Outcome), string(d.Reason)).Inc()
	if !d.Allowed() {
		DeniedTotal.WithLabelValues(role, string(d.Reason)).Inc()
	}

	checked := "false"
	if relationshipChecked {
		checked = "true"
	}
	CheckDuration.WithLabelValues(role, checked).Observe(duration.Seconds())
}

// RecordCheckError records an access check failure.
func RecordCheckError(errorType string) {
	CheckErrorsTotal.WithLabelValues(errorType).Inc()
}
