// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentfolio/docgate/internal/auth"
	"github.com/talentfolio/docgate/internal/authz"
	"github.com/talentfolio/docgate/internal/middleware"
)

// Router assembles the middleware chain and route groups.
type Router struct {
	handlers *Handlers
	health   *HealthHandler
	guard    *Guard
	authn    *auth.Middleware
	admin    *authz.Middleware
	chiMW    *ChiMiddleware
}

// NewRouter wires the route dependencies.
func NewRouter(handlers *Handlers, health *HealthHandler, guard *Guard, authn *auth.Middleware, admin *authz.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{
		handlers: handlers,
		health:   health,
		guard:    guard,
		authn:    authn,
		admin:    admin,
		chiMW:    chiMW,
	}
}

// Setup builds the chi handler. Middleware order is a contract:
// request identity and logging first, throttling and CORS next, then
// authentication, then the per-group access gates.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger())
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMW.RateLimit())
	r.Use(router.chiMW.CORS())
	r.Use(SecurityHeaders())

	// Open endpoints.
	r.Get("/healthz", router.health.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.authn.Authenticate)

		// Owner-addressed routes: the coarse gate decides from the
		// path parameter before any data is loaded.
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(router.guard.GuardUser)
			r.Get("/documents", router.handlers.ListUserDocuments)
			r.Get("/documents/stats", router.handlers.UserDocumentStats)
			r.Get("/resume", router.handlers.GetUserResume)
		})

		// Record-addressed routes: ownership is verified against the
		// loaded record inside the handler.
		r.Post("/documents", router.handlers.CreateDocument)
		r.Get("/documents/{documentID}", router.handlers.GetDocument)
		r.Delete("/documents/{documentID}", router.handlers.DeleteDocument)

		// Admin verification workflow behind casbin RBAC.
		r.Route("/admin", func(r chi.Router) {
			r.Use(router.admin.Require)
			r.Get("/documents/pending", router.handlers.AdminListPending)
			r.Put("/documents/{documentID}/status", router.handlers.AdminUpdateStatus)
		})
	})

	return r
}
