// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package audit

import (
	"context"
	"time"

	"github.com/talentfolio/docgate/internal/logging"
)

// Retention periodically purges audit entries past the retention
// window. It implements suture.Service.
type Retention struct {
	store     Store
	retainFor time.Duration
	interval  time.Duration
}

// NewRetention creates a retention worker keeping retentionDays of
// history. The purge runs once per interval; pass zero for the
// default of one hour.
func NewRetention(store Store, retentionDays int, interval time.Duration) *Retention {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Retention{
		store:     store,
		retainFor: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  interval,
	}
}

// Serve runs the purge loop until ctx is cancelled.
func (r *Retention) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.purgeOnce(ctx)
		}
	}
}

func (r *Retention) purgeOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.retainFor)
	removed, err := r.store.Purge(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("Audit retention purge failed")
		return
	}
	if removed > 0 {
		logging.Info().
			Int("removed", removed).
			Time("cutoff", cutoff).
			Msg("Purged expired audit entries")
	}
}

// String names the service in supervisor logs.
func (r *Retention) String() string {
	return "audit-retention"
}
