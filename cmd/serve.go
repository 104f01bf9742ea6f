package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"sitekit/internal/api"
	"sitekit/internal/config"
	"sitekit/pkg/logger"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startServer binds the listener up front so a taken port fails the command
// instead of a background goroutine, then serves until stopped.
func startServer(ctx context.Context, cfg *config.Config) (stop func(ctx context.Context), err error) {
	opts := api.NewOptions(cfg)
	if opts.Contact.APIKey == "" || opts.Contact.To == "" || opts.Contact.From == "" {
		logger.Warn(ctx, "email is not configured, contact submissions will be answered with 500")
	}

	server, err := api.NewServer(ctx, api.Deps{}, opts)
	if err != nil {
		return nil, err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", opts.Addr)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	go func() {
		logger.Info(ctx, "serving site",
			zap.String("addr", ln.Addr().String()),
			zap.String("dir", opts.SiteDir),
			zap.Bool("prerender", opts.Prerender),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "webserver stopped unexpectedly", zap.Error(err))
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}, nil
}

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the site, its layout fragments and the contact API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopWebserver, err := startServer(ctx, cfg)
			if err != nil {
				logger.Error(ctx, "could not start webserver", zap.Error(err))

				return err
			}

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			return nil
		},
	}
}
