package nav

import (
	"github.com/PuerkitoBio/goquery"
)

// NavLinkSelector matches anchors marked as navigation entries.
const NavLinkSelector = "a[data-nav][href]"

// ActiveClasses are added to the link matching the current route.
var ActiveClasses = []string{"text-brandBlue", "font-semibold"} //nolint: gochecknoglobals

// SetActiveNav marks the navigation links under root whose href routes to
// currentPath and clears the marking from every other internal link.
// External and relative hrefs are left untouched. Matching is exact on
// normalized paths. Re-running it converges to the same state. It returns
// the number of active links.
func SetActiveNav(root *goquery.Selection, currentPath string) int {
	current := NormalizePath(currentPath)
	active := 0

	root.Find(NavLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !IsInternalHref(href) {
			return
		}

		if NormalizePath(href) == current {
			active++
			for _, c := range ActiveClasses {
				a.AddClass(c)
			}
			a.SetAttr("aria-current", "page")

			return
		}

		for _, c := range ActiveClasses {
			a.RemoveClass(c)
		}
		a.RemoveAttr("aria-current")
	})

	return active
}
