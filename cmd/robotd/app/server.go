package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/devghori1264/aerophoenix/robot-service/cmd/robotd/app/options"
	"github.com/devghori1264/aerophoenix/robot-service/internal/server"
)

const readHeaderTimeout = 10 * time.Second

// serveHTTP runs the HTTP server until ctx is cancelled, then drains
// in-flight requests within the configured timeout.
func serveHTTP(ctx context.Context, opts *options.HTTPOptions, handler http.Handler, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}
	return serveHTTPListener(ctx, lis, opts, handler, logger)
}

func serveHTTPListener(ctx context.Context, lis net.Listener, opts *options.HTTPOptions, handler http.Handler, logger *zap.Logger) error {
	hs := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", lis.Addr().String()))
		if err := hs.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// serveGRPC runs the gRPC server until ctx is cancelled.
func serveGRPC(ctx context.Context, addr string, srv *server.Server, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveGRPCListener(ctx, lis, srv, logger)
}

func serveGRPCListener(ctx context.Context, lis net.Listener, srv *server.Server, logger *zap.Logger) error {
	gs := grpc.NewServer()
	srv.RegisterGRPC(gs)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("gRPC server shutting down")
		gs.GracefulStop()
		return nil
	}
}
