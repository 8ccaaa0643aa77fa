package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/signbridge/internal/app"
	"github.com/ekisa-team/signbridge/internal/config"
	"github.com/ekisa-team/signbridge/internal/observe"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var httpPort, grpcPort int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			// Flag overrides apply to every reloaded config as well.
			override := func(c *config.Config) {
				if cmd.Flags().Changed("http-port") {
					c.Server.HTTPPort = httpPort
				}
				if cmd.Flags().Changed("grpc-port") {
					c.Server.GRPCPort = grpcPort
				}
			}
			override(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
			if err != nil {
				return err
			}
			defer func() {
				if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
					slog.Warn("Failed to shut down telemetry", "error", err)
				}
			}()

			a, err := app.New(ctx, cfg, provider.Metrics)
			if err != nil {
				return err
			}

			if xfs.Exists(root.configPath) {
				watcher, err := config.NewWatcher(root.configPath, root.schemaPath, func(next *config.Config, err error) {
					if err != nil {
						return
					}
					override(next)
					a.Reload(ctx, next)
				})
				if err != nil {
					return err
				}
				defer watcher.Close()
				slog.Info("Watching config", "config", root.configPath)
			}

			return a.Serve(ctx, version)
		},
	}

	cmd.Flags().IntVar(&httpPort, "http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
	cmd.Flags().IntVar(&grpcPort, "grpc-port", config.DefaultGRPCPort(), "gRPC port to listen on")
	return cmd
}
