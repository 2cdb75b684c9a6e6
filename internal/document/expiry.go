// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package document

import (
	"context"
	"time"

	"github.com/talentfolio/docgate/internal/logging"
)

// ExpirySweeper periodically expires verified documents past their
// expiry date. It implements suture.Service.
type ExpirySweeper struct {
	service  *Service
	interval time.Duration
}

// NewExpirySweeper creates a sweeper. Pass zero for the default
// interval of one hour.
func NewExpirySweeper(service *Service, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{service: service, interval: interval}
}

// Serve runs the sweep loop until ctx is cancelled.
func (e *ExpirySweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.sweepOnce(ctx)
		}
	}
}

func (e *ExpirySweeper) sweepOnce(ctx context.Context) {
	expired, err := e.service.ExpireOverdue(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Document expiry sweep failed")
		return
	}
	if expired > 0 {
		logging.Info().Int("expired", expired).Msg("Expired overdue documents")
	}
}

// String names the service in supervisor logs.
func (e *ExpirySweeper) String() string {
	return "document-expiry"
}
