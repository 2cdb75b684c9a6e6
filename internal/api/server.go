// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/talentfolio/docgate/internal/logging"
)

// Server runs the HTTP listener under supervision. It implements
// suture.Service: Serve blocks until the context is cancelled, then
// shuts the listener down gracefully.
type Server struct {
	addr            string
	handler         http.Handler
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

// NewServer creates the HTTP service.
func NewServer(addr string, handler http.Handler, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		addr:            addr,
		handler:         handler,
		readTimeout:     timeout,
		writeTimeout:    timeout,
		shutdownTimeout: 10 * time.Second,
	}
}

// Serve runs the listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("Graceful shutdown incomplete, closing")
		_ = srv.Close()
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *Server) String() string {
	return "http-server"
}
