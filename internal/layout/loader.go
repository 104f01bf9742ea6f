// Package layout mounts the shared header and footer fragments into a page
// and wires the navigation behaviour on the mounted markup.
package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sitekit/internal/config"
	"sitekit/internal/dom"
	"sitekit/internal/nav"
	"sitekit/pkg/logger"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	FragmentHeader = "header"
	FragmentFooter = "footer"
)

// Status is the result of mounting one fragment.
type Status int

const (
	// StatusMounted means the fragment replaced the target's content.
	StatusMounted Status = iota
	// StatusNoTarget means the page has no target element; nothing was fetched.
	StatusNoTarget
	// StatusFetchFailed means the fragment could not be retrieved.
	StatusFetchFailed
	// StatusFailed means the subsystem broke after or while mounting.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusMounted:
		return "mounted"
	case StatusNoTarget:
		return "no_target"
	case StatusFetchFailed:
		return "fetch_failed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes what happened to one subsystem. Root is the target
// element when Status is StatusMounted and nil otherwise.
type Outcome struct {
	Status Status
	Root   *goquery.Selection
	Err    error
}

// Mounted reports whether the fragment was injected.
func (o Outcome) Mounted() bool { return o.Status == StatusMounted }

// Result collects the outcome of a layout pass.
type Result struct {
	Header Outcome
	Footer Outcome
	// Menu is the wired mobile menu, nil if the header lacks one.
	Menu        *nav.Menu
	ActiveLinks int
	YearStamped bool
}

// Options configures a Loader.
type Options struct {
	HeaderURL      string
	FooterURL      string
	HeaderTargetID string
	FooterTargetID string
	// FetchTimeout bounds each fragment fetch. Zero disables the bound.
	FetchTimeout time.Duration
	// Now supplies the footer year. Defaults to time.Now.
	Now func() time.Time
}

// NewOptions maps the layout section of the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		HeaderURL:      cfg.Layout.HeaderURL,
		FooterURL:      cfg.Layout.FooterURL,
		HeaderTargetID: cfg.Layout.HeaderTargetID,
		FooterTargetID: cfg.Layout.FooterTargetID,
		FetchTimeout:   cfg.Layout.FetchTimeout,
	}
}

// Deps are the collaborators of Loader.
type Deps struct {
	Fetcher Fetcher
	// Loads, when set, counts injections by fragment and status.
	Loads *prometheus.CounterVec
}

// Loader runs the layout pass on pages. It holds no per-page state and may
// be shared.
type Loader struct {
	opts Options
	deps Deps
}

// New returns a Loader.
func New(deps Deps, opts Options) *Loader {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Loader{opts: opts, deps: deps}
}

// InjectPartial fetches rawURL, resolved against the page location, and
// replaces the inner content of the element with id targetID. A missing
// target short-circuits before any fetch. Failures are logged and reported
// in the Outcome, never returned.
func (l *Loader) InjectPartial(ctx context.Context, page *dom.Page, rawURL, targetID string) Outcome {
	target := page.ByID(targetID)
	if target.Length() == 0 {
		logger.Debug(ctx, "layout target not found", zap.String("target", targetID))

		return Outcome{Status: StatusNoTarget}
	}

	resolved, err := resolve(page.Location(), rawURL)
	if err != nil {
		logger.Error(ctx, "could not resolve partial url", zap.String("url", rawURL), zap.Error(err))

		return Outcome{Status: StatusFetchFailed, Err: err}
	}

	fetchCtx := ctx
	if l.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.opts.FetchTimeout)
		defer cancel()
	}

	markup, err := l.deps.Fetcher.Fetch(fetchCtx, resolved)
	if err != nil {
		fields := []zap.Field{zap.String("url", resolved), zap.Error(err)}
		var se *StatusError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("status", se.Status))
		}
		logger.Error(ctx, "could not load partial", fields...)

		return Outcome{Status: StatusFetchFailed, Err: err}
	}

	target.SetHtml(markup)

	return Outcome{Status: StatusMounted, Root: target}
}

// Init mounts the header and then the footer. Each subsystem is isolated: a
// failed or panicking header never prevents the footer from mounting.
func (l *Loader) Init(ctx context.Context, page *dom.Page) Result {
	ctx = logger.WithFields(logger.Named(ctx, "layout"), zap.String("page", page.Location().String()))

	var res Result

	res.Header = l.guard(ctx, FragmentHeader, func() Outcome {
		out := l.InjectPartial(ctx, page, l.opts.HeaderURL, l.opts.HeaderTargetID)
		if out.Mounted() {
			res.ActiveLinks = nav.SetActiveNav(out.Root, page.CurrentPath())
			res.Menu = nav.WireMobileNav(page.Events(), out.Root)
		}

		return out
	})

	res.Footer = l.guard(ctx, FragmentFooter, func() Outcome {
		out := l.InjectPartial(ctx, page, l.opts.FooterURL, l.opts.FooterTargetID)
		if out.Mounted() {
			res.YearStamped = nav.SetFooterYear(out.Root, l.opts.Now())
		}

		return out
	})

	return res
}

// Attach runs Init once the page is parsed: immediately for an interactive
// page, on DOMContentLoaded otherwise. done, if not nil, receives the result.
func (l *Loader) Attach(ctx context.Context, page *dom.Page, done func(Result)) {
	page.WhenReady(func() {
		res := l.Init(ctx, page)
		if done != nil {
			done(res)
		}
	})
}

// Render parses the document read from r as if loaded from location, runs
// the layout pass on it and returns the resulting markup. Fragment failures
// are reported in the Result; only parse and render errors are returned.
func (l *Loader) Render(ctx context.Context, r io.Reader, location string) (string, Result, error) {
	page, err := dom.Parse(r, location)
	if err != nil {
		return "", Result{}, fmt.Errorf("could not load page: %w", err)
	}

	res := l.Init(ctx, page)

	out, err := page.HTML()
	if err != nil {
		return "", res, err
	}

	return out, res, nil
}

// guard runs one subsystem, converting a panic into a StatusFailed outcome.
func (l *Loader) guard(ctx context.Context, fragment string, fn func() Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("layout %s panicked: %v", fragment, r)
			logger.Error(ctx, "layout init error", zap.String("fragment", fragment), zap.Error(err))
			out = Outcome{Status: StatusFailed, Err: err}
		}
		if l.deps.Loads != nil {
			l.deps.Loads.WithLabelValues(fragment, out.Status.String()).Inc()
		}
	}()

	return fn()
}

func resolve(base *url.URL, rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("could not parse fragment url: %w", err)
	}
	if base == nil {
		return ref.String(), nil
	}

	return base.ResolveReference(ref).String(), nil
}
