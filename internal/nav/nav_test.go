package nav_test

import (
	"sitekit/internal/dom"
	"sitekit/internal/nav"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const header = `<html><body>
<div id="site-header">
  <header>
    <a href="/" data-nav id="home">Home</a>
    <a href="/about/" data-nav id="about">About</a>
    <a href="/services" data-nav id="services" class="hover:text-brandBlue">Services</a>
    <a href="https://blog.example.com" data-nav id="blog">Blog</a>
    <a href="contact" data-nav id="relative">Contact</a>
    <button data-mobile-toggle id="toggle"><span id="toggle-icon">≡</span></button>
    <div id="mobileNav" class="hidden lg:hidden">
      <a href="/about" id="m-about"><span id="m-about-label">About</span></a>
      <span id="m-text">not a link</span>
    </div>
  </header>
</div>
<main id="main"><p id="body-text">content</p></main>
<div id="site-footer"><footer>&copy; <span data-year id="year">2000</span></footer></div>
</body></html>`

func newPage(t *testing.T, path string) *dom.Page {
	t.Helper()
	p, err := dom.ParseString(header, "https://example.com"+path)
	require.NoError(t, err)

	return p
}

func activeIDs(root *goquery.Selection) []string {
	var ids []string
	root.Find("a[aria-current]").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})

	return ids
}

func TestSetActiveNav_ExactMatch(t *testing.T) {
	p := newPage(t, "/services")
	root := p.ByID("site-header")

	require.Equal(t, 1, nav.SetActiveNav(root, p.CurrentPath()))
	require.Equal(t, []string{"services"}, activeIDs(root))

	services := p.ByID("services")
	require.True(t, services.HasClass("text-brandBlue"))
	require.True(t, services.HasClass("font-semibold"))
	require.True(t, services.HasClass("hover:text-brandBlue"), "existing classes are kept")
	require.Equal(t, "page", services.AttrOr("aria-current", ""))
	require.False(t, p.ByID("home").HasClass("font-semibold"))
}

func TestSetActiveNav_TrailingSlashEquivalence(t *testing.T) {
	for _, path := range []string{"/about", "/about/"} {
		p := newPage(t, path)
		root := p.ByID("site-header")
		nav.SetActiveNav(root, p.CurrentPath())
		require.Equal(t, []string{"about"}, activeIDs(root), "path %q", path)
	}
}

func TestSetActiveNav_NoPrefixMatching(t *testing.T) {
	p := newPage(t, "/services/web")
	root := p.ByID("site-header")

	require.Zero(t, nav.SetActiveNav(root, p.CurrentPath()))
	require.Empty(t, activeIDs(root))
}

func TestSetActiveNav_RootOnlyMatchesRoot(t *testing.T) {
	p := newPage(t, "")
	root := p.ByID("site-header")

	nav.SetActiveNav(root, p.CurrentPath())
	require.Equal(t, []string{"home"}, activeIDs(root))
}

func TestSetActiveNav_IdempotentAndClearsStale(t *testing.T) {
	p := newPage(t, "/about")
	root := p.ByID("site-header")

	nav.SetActiveNav(root, "/about")
	nav.SetActiveNav(root, "/about")
	about := p.ByID("about")
	require.Equal(t, 1, strings.Count(about.AttrOr("class", ""), "font-semibold"))

	// navigating elsewhere clears the previous marking
	nav.SetActiveNav(root, "/services")
	require.False(t, about.HasClass("font-semibold"))
	_, has := about.Attr("aria-current")
	require.False(t, has)
}

func TestSetActiveNav_IgnoresExternalAndRelative(t *testing.T) {
	p := newPage(t, "/contact")
	p.ByID("blog").AddClass("font-semibold")
	root := p.ByID("site-header")

	require.Zero(t, nav.SetActiveNav(root, p.CurrentPath()))
	require.True(t, p.ByID("blog").HasClass("font-semibold"), "external links are never touched")
	require.False(t, p.ByID("relative").HasClass("font-semibold"))
}

func wired(t *testing.T) (*dom.Page, *nav.Menu) {
	t.Helper()
	p := newPage(t, "/")
	m := nav.WireMobileNav(p.Events(), p.ByID("site-header"))
	require.NotNil(t, m)

	return p, m
}

func isHidden(p *dom.Page) bool {
	return p.ByID("mobileNav").HasClass(nav.HiddenClass)
}

func TestMobileNav_ToggleOpensAndCloses(t *testing.T) {
	p, m := wired(t)
	require.Equal(t, nav.MenuClosed, m.State(), "initial state read from markup")

	p.Click(p.ByID("toggle-icon"))
	require.Equal(t, nav.MenuOpen, m.State())
	require.False(t, isHidden(p))

	p.Click(p.ByID("toggle"))
	require.Equal(t, nav.MenuClosed, m.State())
	require.True(t, isHidden(p))
	require.True(t, p.ByID("mobileNav").HasClass("lg:hidden"), "unrelated classes survive rendering")
}

func TestMobileNav_LinkClickAlwaysCloses(t *testing.T) {
	p, m := wired(t)

	p.Click(p.ByID("toggle"))
	p.Click(p.ByID("m-about-label"))
	require.Equal(t, nav.MenuClosed, m.State())

	// repeated clicks keep it closed rather than toggling
	p.Click(p.ByID("m-about"))
	require.Equal(t, nav.MenuClosed, m.State())
	require.True(t, isHidden(p))
}

func TestMobileNav_NonLinkClickInsideMenuKeepsOpen(t *testing.T) {
	p, m := wired(t)

	p.Click(p.ByID("toggle"))
	p.Click(p.ByID("m-text"))
	require.Equal(t, nav.MenuOpen, m.State())
}

func TestMobileNav_OutsideClickCloses(t *testing.T) {
	p, m := wired(t)

	p.Click(p.ByID("toggle"))
	p.Click(p.ByID("about"))
	require.Equal(t, nav.MenuOpen, m.State(), "clicks inside the header leave the menu alone")

	p.Click(p.ByID("body-text"))
	require.Equal(t, nav.MenuClosed, m.State())
}

func TestMobileNav_ResizeToDesktopCloses(t *testing.T) {
	p, m := wired(t)

	p.Click(p.ByID("toggle"))
	p.Resize(800)
	require.Equal(t, nav.MenuOpen, m.State())

	p.Resize(nav.DesktopBreakpoint)
	require.Equal(t, nav.MenuClosed, m.State())

	p.Resize(1440)
	require.Equal(t, nav.MenuClosed, m.State(), "resize never opens the menu")
}

func TestWireMobileNav_MissingElements(t *testing.T) {
	p, err := dom.ParseString(`<div id="site-header"><a href="/" data-nav>Home</a></div>`, "https://example.com/")
	require.NoError(t, err)

	require.Nil(t, nav.WireMobileNav(p.Events(), p.ByID("site-header")))
	require.Zero(t, p.Events().Count(dom.EventClick))
	require.Nil(t, nav.WireMobileNav(p.Events(), p.ByID("missing")))
}

func TestWireMobileNav_SubscribesFourListeners(t *testing.T) {
	p, _ := wired(t)
	require.Equal(t, 3, p.Events().Count(dom.EventClick))
	require.Equal(t, 1, p.Events().Count(dom.EventResize))
}

func TestMenuState_String(t *testing.T) {
	require.Equal(t, "open", nav.MenuOpen.String())
	require.Equal(t, "closed", nav.MenuClosed.String())
}

func TestSetFooterYear(t *testing.T) {
	p := newPage(t, "/")

	now := time.Date(2031, time.March, 3, 0, 0, 0, 0, time.UTC)
	require.True(t, nav.SetFooterYear(p.ByID("site-footer"), now))
	require.Equal(t, "2031", p.ByID("year").Text())

	require.False(t, nav.SetFooterYear(p.ByID("site-header"), now))
}
