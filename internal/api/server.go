// Package api configures and exposes the HTTP server for the site: static
// files, layout fragments, the contact endpoint, metrics, docs and related
// middleware.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sitekit/internal/config"
	"sitekit/internal/contact"
	"sitekit/internal/layout"
	"sitekit/pkg/controller"
	"sitekit/pkg/logger"
	"sitekit/pkg/mailer"
	"sitekit/pkg/mailer/resend"
	"sitekit/pkg/metrics"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

// contactSpec contains the embedded OpenAPI document of the contact endpoint.
//
//go:embed specs/contact.yaml
var contactSpec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// EnablePprof mounts the profiling handlers under /debug/pprof/.
	EnablePprof bool
	// CORSOrigins are the origins allowed to call /api from a browser.
	CORSOrigins []string

	// SiteDir is the directory served as the static site.
	SiteDir string
	// Prerender injects the layout fragments into HTML pages before serving them.
	Prerender bool

	// ResendAPIURL overrides the email provider endpoint.
	ResendAPIURL string
	Contact      contact.Options
	Layout       layout.Options
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		EnablePprof:       cfg.HTTP.EnablePprof,
		CORSOrigins:       cfg.HTTP.CORSOrigins,

		SiteDir:   cfg.Site.Dir,
		Prerender: cfg.Site.Prerender,

		ResendAPIURL: cfg.Contact.ResendAPIURL,
		Contact:      contact.NewOptions(cfg),
		Layout:       layout.NewOptions(cfg),
	}
}

// Deps are optional collaborators. Zero values are replaced by production
// defaults: a fresh registry, the default HTTP client and a Resend sender.
type Deps struct {
	Registry   *prometheus.Registry
	HTTPClient *http.Client
	Sender     mailer.Sender
}

// NewHandler builds the router. It sets up:
// - the static site under SiteDir, optionally prerendered
// - /partials/* served without caching
// - the contact endpoint under CORS
// - Prometheus metrics (MetricsPath) with an OpenTelemetry exporter on the same registry
// - the embedded OpenAPI document and Swagger UI
// - /healthz, and pprof endpoints when enabled
// Every route is wrapped with the request logger.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	cols, err := metrics.NewCollectors(reg)
	if err != nil {
		return nil, err
	}
	mp, err := metrics.NewMeterProvider(reg)
	if err != nil {
		return nil, err
	}

	sender := deps.Sender
	if sender == nil {
		var ropts []resend.Option
		if opts.ResendAPIURL != "" {
			ropts = append(ropts, resend.WithEndpoint(opts.ResendAPIURL))
		}
		ropts = append(ropts, resend.WithMeterProvider(mp))
		sender = resend.New(deps.HTTPClient, opts.Contact.APIKey, ropts...)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(controller.WithLogger)

	// prometheus metrics server
	r.Method(http.MethodGet, opts.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// contact api specs file and swagger playground
	r.Get("/api/specs/contact.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(contactSpec)
	})
	r.Handle("/api/docs/*", v5emb.New(
		"Site Contact API",
		"/api/specs/contact.yaml",
		"/api/docs/",
	))

	// contact api; the handler answers non-POST methods itself
	r.Group(func(r chi.Router) {
		r.Use(controller.WithCORS(opts.CORSOrigins))
		r.Handle("/api/contact", contact.New(contact.Deps{
			Sender:   sender,
			Outcomes: cols.ContactOutcomes,
		}, opts.Contact))
	})

	if opts.EnablePprof {
		r.Handle(controller.PprofPrefix+"*", controller.PprofMux())
	}

	site := http.Dir(opts.SiteDir)
	files := http.FileServer(site)
	r.Handle("/partials/*", controller.WithNoCache(files))

	var pages http.Handler = files
	if opts.Prerender {
		loader := layout.New(layout.Deps{
			Fetcher: layout.NewFSFetcher(os.DirFS(opts.SiteDir)),
			Loads:   cols.PartialLoads,
		}, opts.Layout)
		pages = Prerender(loader, site, files)
	}
	r.Handle("/*", pages)

	return r, nil
}

// NewServer wires up and returns a configured *http.Server using the
// provided Options, applying a request timeout around NewHandler's router.
func NewServer(ctx context.Context, deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, `{"ok":false,"message":"Request timed out."}`)
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          logger.StdLogger(logger.Named(ctx, "http"), slog.LevelWarn),
	}, nil
}
