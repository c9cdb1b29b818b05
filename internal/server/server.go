// Package server runs the HTTP and gRPC listeners until the context ends,
// then drains both.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gogrpc "google.golang.org/grpc"

	"github.com/shashiranjanraj/mockshop/pkg/grpc"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

// Config describes what to serve.
type Config struct {
	Addr     string
	GRPCPort string
	Handler  http.Handler
	// Check backs the gRPC health service.
	Check grpc.Checker
	// ShutdownTimeout bounds the HTTP drain. Defaults to 15s.
	ShutdownTimeout time.Duration
}

// Run serves until ctx is cancelled or a listener fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}

	grpcSrv := grpcServer(cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: listen: %w", err)
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			runErr = err
		}
	}

	logger.Info("http: server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http: shutdown: %w", err)
	}
	grpc.Stop(grpcSrv)
	return runErr
}

func grpcServer(cfg Config) *gogrpc.Server {
	if cfg.GRPCPort == "" || cfg.GRPCPort == "0" {
		return nil
	}
	srv, err := grpc.Start(cfg.GRPCPort, cfg.Check)
	if err != nil {
		// the HTTP API is still useful without the health port
		logger.Warn("grpc: disabled", "error", err)
		return nil
	}
	return srv
}
