// Package server runs the HTTP API until its context is cancelled.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"replayrng/adapters/api"
	"replayrng/internal"
	"replayrng/internal/config"
	"replayrng/internal/container"
)

// Run wires the container, serves the API on the configured port and shuts
// down gracefully when ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	listener, err := net.Listen("tcp", ":"+cfg.Server.Port)
	if err != nil {
		return err
	}
	return Serve(ctx, listener, api.NewServer(c.GeneratorService, c.Logger).Handler(), cfg, c.Logger)
}

// Serve handles requests on listener until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, cfg *config.Config, logger *internal.Logger) error {
	srv := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting replayrng server on %s", listener.Addr())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
