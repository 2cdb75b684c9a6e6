// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package main is the entry point for the Docgate server.
//
// Docgate is the document access gateway for the Talentfolio platform.
// It fronts student work authorization documents and resumes with a
// role-aware access layer: students see their own records, consultants
// see students they hold an active booking with, admins see everything,
// and employers are blocked from private document surfaces entirely.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Storage: Badger key-value store for users, resumes, bookings,
//     documents, and the audit trail
//  3. Audit: async access audit logger with bounded retention
//  4. Authentication: HS256 JWT principal resolution
//  5. Authorization: the access policy engine plus casbin RBAC for
//     the admin verification surface
//  6. HTTP server: chi router under a suture supervision tree
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// listener drains in-flight requests, the audit buffer is flushed,
// and the store is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentfolio/docgate/internal/api"
	"github.com/talentfolio/docgate/internal/audit"
	"github.com/talentfolio/docgate/internal/auth"
	"github.com/talentfolio/docgate/internal/authz"
	"github.com/talentfolio/docgate/internal/booking"
	"github.com/talentfolio/docgate/internal/config"
	"github.com/talentfolio/docgate/internal/document"
	"github.com/talentfolio/docgate/internal/logging"
	"github.com/talentfolio/docgate/internal/store"
	"github.com/talentfolio/docgate/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting Docgate")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage.
	db, err := store.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	users := store.NewUserStore(db)
	resumes := store.NewResumeStore(db)
	bookings := booking.NewBadgerStore(db)
	documents := document.NewService(document.NewBadgerStore(db), resumes)

	// Audit trail.
	auditStore := audit.NewBadgerStore(db)
	auditor := audit.NewLogger(auditStore, audit.LoggerConfig{
		BufferSize:   cfg.Audit.BufferSize,
		WriteTimeout: 5 * time.Second,
	})
	defer auditor.Close()

	// Authentication.
	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to create jwt manager: %w", err)
	}
	fallback := auth.RoleUnknown
	if cfg.Auth.RoleFallback == "student" {
		fallback = auth.RoleStudent
	}
	resolver := auth.NewResolver(jwtManager, users, auth.ResolverConfig{
		RequireVerifiedEmail: cfg.Auth.RequireVerifiedEmail,
		RoleFallback:         fallback,
	})

	// Admin RBAC.
	enforcerCfg := authz.DefaultEnforcerConfig()
	enforcerCfg.ModelPath = cfg.Security.Casbin.ModelPath
	enforcerCfg.PolicyPath = cfg.Security.Casbin.PolicyPath
	enforcerCfg.AutoReload = cfg.Security.Casbin.AutoReload
	enforcerCfg.ReloadInterval = cfg.Security.Casbin.ReloadInterval
	enforcer, err := authz.NewEnforcer(enforcerCfg)
	if err != nil {
		return fmt.Errorf("failed to create enforcer: %w", err)
	}
	defer enforcer.Close()

	// HTTP surface.
	guard := api.NewGuard(bookings, auditor)
	handlers := api.NewHandlers(documents, resumes, guard)
	health := api.NewHealthHandler(db, auditor)

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(
		handlers,
		health,
		guard,
		auth.NewMiddleware(resolver),
		authz.NewMiddleware(enforcer, auditor),
		api.NewChiMiddleware(mwCfg),
	)

	// Supervision tree.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to build supervision tree: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	tree.AddAPIService(api.NewServer(addr, router.Setup(), cfg.Server.Timeout))
	if cfg.Audit.RetentionDays > 0 {
		tree.AddMaintenanceService(audit.NewRetention(auditStore, cfg.Audit.RetentionDays, time.Hour))
	}
	tree.AddMaintenanceService(document.NewExpirySweeper(documents, time.Hour))

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree stopped: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
