// Package netx runs HTTP servers with graceful shutdown.
package netx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authdash/internal/logging"
)

// ShutdownTimeout bounds the graceful stop of a server.
const ShutdownTimeout = 5 * time.Second

// Serve accepts connections on ln until ctx is done, then shuts srv down
// gracefully. A clean shutdown returns nil.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger logging.Logger) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return Serve(ctx, srv, ln, logger)
}
