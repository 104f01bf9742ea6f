package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sitekit/internal/config"
	"sitekit/internal/layout"
	"sitekit/internal/render"
	"sitekit/pkg/logger"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func renderCommand(cfg *config.Config) *cobra.Command {
	var (
		dir     string
		out     string
		pageURL string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Prerenders pages with the header and footer mounted",
		Long: "With --url, fetches one page and its fragments over HTTP and prints the result " +
			"(or writes it to --out). Otherwise renders every HTML page under --dir into --out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if pageURL != "" {
				return renderURL(ctx, cfg, pageURL, out, cmd.OutOrStdout())
			}
			if out == "" {
				return fmt.Errorf("--out is required when rendering a directory")
			}

			return renderDir(ctx, cfg, dir, out, baseURL, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", cfg.Site.Dir, "site directory to render")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory, or output file with --url")
	cmd.Flags().StringVar(&pageURL, "url", "", "render a single page fetched from this URL")
	cmd.Flags().StringVar(&baseURL, "base-url", render.DefaultOptions().BaseURL, "origin pages are rendered as")

	return cmd
}

func renderDir(ctx context.Context, cfg *config.Config, dir, out, baseURL string, progress io.Writer) error {
	src := os.DirFS(dir)
	loader := layout.New(layout.Deps{Fetcher: layout.NewFSFetcher(src)}, layout.NewOptions(cfg))

	opts := render.DefaultOptions()
	opts.BaseURL = baseURL

	sum, err := render.Site(ctx, loader, src, out, opts, render.NewBarReporter(progress))
	if err != nil {
		return fmt.Errorf("could not render site: %w", err)
	}

	logger.Info(ctx, "site rendered",
		zap.Int("pages", sum.Pages),
		zap.Strings("degraded", sum.Degraded),
		zap.String("out", out),
	)

	return nil
}

func renderURL(ctx context.Context, cfg *config.Config, pageURL, out string, stdout io.Writer) error {
	client := &http.Client{Timeout: cfg.Layout.FetchTimeout}
	fetcher := layout.NewHTTPFetcher(client)

	markup, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("could not fetch page: %w", err)
	}

	loader := layout.New(layout.Deps{Fetcher: fetcher}, layout.NewOptions(cfg))
	html, res, err := loader.Render(ctx, strings.NewReader(markup), pageURL)
	if err != nil {
		return fmt.Errorf("could not render page: %w", err)
	}
	logger.Info(ctx, "page rendered",
		zap.String("url", pageURL),
		zap.Stringer("header", res.Header.Status),
		zap.Stringer("footer", res.Footer.Status),
	)

	if out == "" {
		_, err = io.WriteString(stdout, html)

		return err //nolint: wrapcheck
	}

	if err := atomic.WriteFile(out, strings.NewReader(html)); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}

	return nil
}
