package api

import (
	"io"
	"net/http"
	"net/url"
	"path"
	"sitekit/internal/layout"
	"sitekit/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// Prerender serves HTML pages from site with the layout fragments already
// mounted, so clients without scripts get the header and footer. Requests
// that do not resolve to an HTML page, and pages that fail to render, are
// passed to next.
func Prerender(loader *layout.Loader, site http.FileSystem, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)

			return
		}

		name, ok := resolvePage(site, r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)

			return
		}

		ctx := r.Context()
		f, err := site.Open(name)
		if err != nil {
			next.ServeHTTP(w, r)

			return
		}
		defer func() { _ = f.Close() }()

		out, res, err := loader.Render(ctx, f, requestLocation(r))
		if err != nil {
			logger.Error(ctx, "could not prerender page", zap.String("file", name), zap.Error(err))
			next.ServeHTTP(w, r)

			return
		}
		logger.Debug(ctx, "page prerendered",
			zap.String("file", name),
			zap.Stringer("header", res.Header.Status),
			zap.Stringer("footer", res.Footer.Status),
		)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, out)
	})
}

// resolvePage maps a request path to an HTML file in site, following the
// static host conventions: "/" and "/dir/" serve index.html, and "/about"
// serves about.html or about/index.html. Fragments are never prerendered.
func resolvePage(site http.FileSystem, p string) (string, bool) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	clean := path.Clean(p)
	if strings.HasPrefix(clean, "/partials/") {
		return "", false
	}

	var candidates []string
	switch {
	case strings.HasSuffix(p, "/"):
		candidates = []string{path.Join(clean, "index.html")}
	case path.Ext(clean) == ".html":
		candidates = []string{clean}
	case path.Ext(clean) == "":
		candidates = []string{clean + ".html", path.Join(clean, "index.html")}
	}

	for _, c := range candidates {
		if isFile(site, c) {
			return c, true
		}
	}

	return "", false
}

func isFile(site http.FileSystem, name string) bool {
	f, err := site.Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()

	return err == nil && !st.IsDir()
}

func requestLocation(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	return (&url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path}).String()
}
