package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devghori1264/aerophoenix/robot-service/cmd/robotd/app/options"
	"github.com/devghori1264/aerophoenix/robot-service/internal/api"
	"github.com/devghori1264/aerophoenix/robot-service/internal/events"
	"github.com/devghori1264/aerophoenix/robot-service/internal/log"
	"github.com/devghori1264/aerophoenix/robot-service/internal/metrics"
	"github.com/devghori1264/aerophoenix/robot-service/internal/server"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
	"github.com/devghori1264/aerophoenix/robot-service/internal/tracing"
)

const (
	commandName = "robotd"
	commandDesc = `robotd serves the robot registry over HTTP and gRPC.

Robots are created, listed, fetched and partially updated through the REST
API on --http.addr. The same operations are available on --grpc.addr as the
robot.v1.RobotService. Prometheus metrics are exposed on /metrics.

Every flag can also be set through the environment: --store.backend becomes
ROBOTD_STORE_BACKEND.`
)

// NewCommand creates the robotd root command.
func NewCommand() *cobra.Command {
	opts := options.NewServerOptions()

	cmd := &cobra.Command{
		Use:           commandName,
		Short:         "Launch the robot registry server",
		Long:          commandDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Load(viper.New(), cmd.Flags()); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}
			return run(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, opts *options.ServerOptions) error {
	logger, err := log.New(opts.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.Open(ctx, opts.Store.Config(), logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", opts.Store.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store close failed", zap.Error(err))
		}
	}()

	publisher, err := events.Open(opts.Events.Config(), logger)
	if err != nil {
		return fmt.Errorf("failed to open %s publisher: %w", opts.Events.Backend, err)
	}
	defer publisher.Close()

	tp, err := tracing.NewProvider(opts.Trace, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	srv := server.New(store, metrics.New(), publisher, logger)

	logger.Info("robotd starting",
		zap.String("store", opts.Store.Backend),
		zap.String("events", opts.Events.Backend),
		zap.Bool("tracing", opts.Trace.Enabled),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(ctx, opts.HTTP, api.NewHTTPHandler(srv, tp.Tracer(commandName), logger), logger)
	})
	if opts.GRPC.Addr != "" {
		g.Go(func() error {
			return serveGRPC(ctx, opts.GRPC.Addr, srv, logger)
		})
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}
