package render_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sitekit/internal/layout"
	"sitekit/internal/render"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><div id="site-header"></div><div id="site-footer"></div></body></html>`

func site() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           {Data: []byte(page)},
		"about.html":           {Data: []byte(page)},
		"services/index.html":  {Data: []byte(page)},
		"styles.css":           {Data: []byte("body{}")},
		"partials/header.html": {Data: []byte(`<a href="/about" data-nav>About</a>`)},
		"partials/footer.html": {Data: []byte(`<span data-year></span>`)},
	}
}

func loader(fsys fstest.MapFS) *layout.Loader {
	return layout.New(layout.Deps{Fetcher: layout.NewFSFetcher(fsys)}, layout.Options{
		HeaderURL:      "/partials/header.html",
		FooterURL:      "/partials/footer.html",
		HeaderTargetID: "site-header",
		FooterTargetID: "site-footer",
		Now:            func() time.Time { return time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
}

type recorder struct {
	total    int
	advanced []string
	finished bool
}

func (r *recorder) Start(total int)     { r.total = total }
func (r *recorder) Advance(page string) { r.advanced = append(r.advanced, page) }
func (r *recorder) Finish()             { r.finished = true }

func TestPages(t *testing.T) {
	pages, err := render.Pages(site(), render.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"about.html", "index.html", "services/index.html"}, pages)

	opts := render.DefaultOptions()
	opts.Include = append(opts.Include, "*.html")
	pages, err = render.Pages(site(), opts)
	require.NoError(t, err)
	assert.Len(t, pages, 3, "overlapping patterns are deduplicated")
}

func TestRoutePath(t *testing.T) {
	cases := map[string]string{
		"index.html":          "/",
		"about.html":          "/about",
		"services/index.html": "/services/",
		"blog/post.html":      "/blog/post",
		"feed.xml":            "/feed.xml",
	}
	for in, want := range cases {
		assert.Equal(t, want, render.RoutePath(in), in)
	}
}

func TestSite(t *testing.T) {
	fsys := site()
	out := t.TempDir()
	rep := &recorder{}

	sum, err := render.Site(context.Background(), loader(fsys), fsys, out, render.DefaultOptions(), rep)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Pages)
	assert.Empty(t, sum.Degraded)

	assert.Equal(t, 3, rep.total)
	assert.Len(t, rep.advanced, 3)
	assert.True(t, rep.finished)

	about, err := os.ReadFile(filepath.Join(out, "about.html"))
	require.NoError(t, err)
	assert.Contains(t, string(about), `aria-current="page"`)
	assert.Contains(t, string(about), "2029")

	services, err := os.ReadFile(filepath.Join(out, "services", "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(services), `aria-current`)

	_, err = os.Stat(filepath.Join(out, "partials", "header.html"))
	assert.True(t, os.IsNotExist(err), "fragments are not rendered")
}

func TestSite_DegradedPagesAreStillWritten(t *testing.T) {
	fsys := site()
	delete(fsys, "partials/footer.html")
	out := t.TempDir()

	sum, err := render.Site(context.Background(), loader(fsys), fsys, out, render.DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Pages)
	assert.Len(t, sum.Degraded, 3)

	_, err = os.Stat(filepath.Join(out, "index.html"))
	require.NoError(t, err)
}

func TestSite_Cancelled(t *testing.T) {
	fsys := site()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := render.Site(ctx, loader(fsys), fsys, t.TempDir(), render.DefaultOptions(), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Pages)
}

func TestBarReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := render.NewBarReporter(&buf)
	rep.Start(2)
	rep.Advance("a.html")
	rep.Advance("b.html")
	rep.Finish()

	assert.NotPanics(t, func() { render.NewBarReporter(&buf).Advance("x") })
}
