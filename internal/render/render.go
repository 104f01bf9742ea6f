// Package render prerenders a static site directory: every HTML page gets
// its layout fragments mounted and is written to an output tree.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sitekit/internal/layout"
	"sitekit/pkg/logger"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// Options selects the pages to render.
type Options struct {
	// BaseURL is the origin the pages are rendered as if loaded from.
	BaseURL string
	// Include lists doublestar patterns of pages to render.
	Include []string
	// Exclude lists doublestar patterns skipped even when included.
	Exclude []string
}

// DefaultOptions renders every HTML page except the fragments themselves.
func DefaultOptions() Options {
	return Options{
		BaseURL: "http://localhost/",
		Include: []string{"**/*.html"},
		Exclude: []string{"partials/**"},
	}
}

// Summary reports what a run did. Degraded lists pages rendered with at
// least one fragment that did not mount.
type Summary struct {
	Pages    int
	Degraded []string
}

// Site renders the selected pages of src into outDir, mirroring their
// relative paths. Each file is replaced atomically. A page whose fragments
// fail still gets written; only read, parse and write errors abort the run.
func Site(ctx context.Context, loader *layout.Loader, src fs.FS, outDir string, opts Options, rep Reporter) (Summary, error) {
	if rep == nil {
		rep = NopReporter{}
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return Summary{}, fmt.Errorf("could not parse base url: %w", err)
	}

	pages, err := Pages(src, opts)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	rep.Start(len(pages))
	defer rep.Finish()

	for _, name := range pages {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("render interrupted: %w", err)
		}

		b, err := fs.ReadFile(src, name)
		if err != nil {
			return sum, fmt.Errorf("could not read %s: %w", name, err)
		}

		location := base.ResolveReference(&url.URL{Path: RoutePath(name)}).String()
		out, res, err := loader.Render(ctx, bytes.NewReader(b), location)
		if err != nil {
			return sum, fmt.Errorf("could not render %s: %w", name, err)
		}
		if !res.Header.Mounted() || !res.Footer.Mounted() {
			sum.Degraded = append(sum.Degraded, name)
			logger.Warn(ctx, "page rendered without full layout",
				zap.String("page", name),
				zap.Stringer("header", res.Header.Status),
				zap.Stringer("footer", res.Footer.Status),
			)
		}

		dst := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return sum, fmt.Errorf("could not create output dir: %w", err)
		}
		if err := atomic.WriteFile(dst, strings.NewReader(out)); err != nil {
			return sum, fmt.Errorf("could not write %s: %w", dst, err)
		}

		sum.Pages++
		rep.Advance(name)
	}

	return sum, nil
}

// Pages lists the files of src matching opts, sorted and deduplicated.
func Pages(src fs.FS, opts Options) ([]string, error) {
	seen := map[string]struct{}{}
	var pages []string

	for _, pattern := range opts.Include {
		matches, err := doublestar.Glob(src, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("could not glob %q: %w", pattern, err)
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok || excluded(m, opts.Exclude) {
				continue
			}
			seen[m] = struct{}{}
			pages = append(pages, m)
		}
	}
	slices.Sort(pages)

	return pages, nil
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}

	return false
}

// RoutePath maps a page file to the route it is served at: "index.html"
// is "/", "about/index.html" is "/about/" and "about.html" is "/about".
func RoutePath(name string) string {
	name = "/" + strings.TrimPrefix(name, "/")
	switch {
	case path.Base(name) == "index.html":
		return strings.TrimSuffix(name, "index.html")
	case path.Ext(name) == ".html":
		return strings.TrimSuffix(name, ".html")
	default:
		return name
	}
}
