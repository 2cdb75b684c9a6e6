// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// entriesTotal counts persisted audit entries by outcome.
	entriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgate_audit_entries_total",
			Help: "Total number of audit entries persisted",
		},
		[]string{"outcome"},
	)

	// droppedTotal counts entries dropped because the buffer was full.
	droppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docgate_audit_dropped_total",
			Help: "Total number of audit entries dropped due to a full buffer",
		},
	)

	// writeErrorsTotal counts failed store writes.
	writeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docgate_audit_write_errors_total",
			Help: "Total number of audit store write failures",
		},
	)
)
