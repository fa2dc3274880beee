// Package server orchestrates process lifecycle: bind the HTTP listener,
// serve until a shutdown signal arrives, then drain in-flight requests
// within a bounded grace period.
//
// Serves on a goroutine, blocks on ctx.Done(), then runs a bounded
// http.Server.Shutdown — trimmed to the one http.Server this repo needs,
// no SPA, no reverse proxy, no WebSocket hijacking.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownGracePeriod = 30 * time.Second

// Run binds addr and serves handler until ctx is cancelled: cancellation
// stops accepting new requests and begins a graceful shutdown, aborting
// any requests still in flight past the grace period.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  0, // streaming chat/audio uploads may run long; no timeout enforced here
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", ln.Addr().String())
		err := httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "grace_period", shutdownGracePeriod)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-serveErr
}
