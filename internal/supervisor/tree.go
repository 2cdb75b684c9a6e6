// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package supervisor builds the process supervision tree. Long-running
// services (the HTTP listener, audit retention, document expiry) run
// under suture supervisors so a panicking or failing service is
// restarted with backoff instead of taking the process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behavior for every supervisor in the tree.
type TreeConfig struct {
	// FailureThreshold is the failure budget before backoff engages.
	FailureThreshold float64

	// FailureDecay is the seconds over which failures are forgiven.
	FailureDecay float64

	// FailureBackoff is how long a supervisor waits once the budget
	// is exhausted.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long a service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production restart settings.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the two-layer supervision tree. The maintenance layer holds
// background sweepers that touch the store; the api layer holds the
// HTTP listener. A crash in one layer never restarts the other.
type Tree struct {
	config TreeConfig

	root        *suture.Supervisor
	maintenance *suture.Supervisor
	api         *suture.Supervisor
}

// NewTree constructs the supervision tree. Zero config fields take
// the defaults from DefaultTreeConfig.
func NewTree(logger *slog.Logger, config TreeConfig) (*Tree, error) {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.FailureDecay <= 0 {
		config.FailureDecay = 30
	}
	if config.FailureBackoff <= 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	spec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("docgate", spec)
	maintenance := suture.New("maintenance-layer", spec)
	api := suture.New("api-layer", spec)

	root.Add(maintenance)
	root.Add(api)

	return &Tree{
		config:      config,
		root:        root,
		maintenance: maintenance,
		api:         api,
	}, nil
}

// AddMaintenanceService registers a background sweeper.
func (t *Tree) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddAPIService registers a service in the api layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree and returns a channel that receives
// the terminal error when the tree stops.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// Root exposes the root supervisor for services that must restart the
// whole tree on failure.
func (t *Tree) Root() *suture.Supervisor {
	return t.root
}
