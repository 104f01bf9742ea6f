package nav

import (
	"sitekit/internal/dom"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DesktopBreakpoint is the viewport width, in logical pixels, at which
	// the mobile menu is forced closed.
	DesktopBreakpoint = 1024
	// HiddenClass hides the mobile menu container.
	HiddenClass = "hidden"
	// ToggleSelector matches the mobile menu toggle control.
	ToggleSelector = "[data-mobile-toggle]"
	// MobileMenuID is the id of the mobile menu container.
	MobileMenuID = "mobileNav"
)

// MenuState is the mobile menu state.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (s MenuState) String() string {
	if s == MenuOpen {
		return "open"
	}

	return "closed"
}

// Menu owns the mobile menu state. The hidden class on the container is a
// projection of State and is rewritten after every transition.
type Menu struct {
	mu    sync.Mutex
	state MenuState
	el    *goquery.Selection
}

// NewMenu adopts el, reading its initial state from the hidden class.
func NewMenu(el *goquery.Selection) *Menu {
	m := &Menu{el: el, state: MenuOpen}
	if el.HasClass(HiddenClass) {
		m.state = MenuClosed
	}

	return m
}

// State returns the current state.
func (m *Menu) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Toggle flips the state and returns the new one.
func (m *Menu) Toggle() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == MenuOpen {
		m.state = MenuClosed
	} else {
		m.state = MenuOpen
	}
	m.render()

	return m.state
}

// Close forces the menu closed. Closing a closed menu is a no-op.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = MenuClosed
	m.render()
}

// render must be called with mu held.
func (m *Menu) render() {
	if m.state == MenuClosed {
		m.el.AddClass(HiddenClass)
	} else {
		m.el.RemoveClass(HiddenClass)
	}
}

// WireMobileNav finds the toggle and menu container under headerRoot and
// subscribes the menu lifecycle on events:
//   - toggle click flips the menu
//   - a click on any anchor with an href inside the menu closes it
//   - a document click outside headerRoot closes it
//   - a resize to DesktopBreakpoint or wider closes it
//
// Only the toggle opens the menu. It returns nil, subscribing nothing, when
// either element is missing. Call it once per header mount.
func WireMobileNav(events dom.Subscriber, headerRoot *goquery.Selection) *Menu {
	if headerRoot.Length() == 0 {
		return nil
	}
	toggle := headerRoot.Find(ToggleSelector).First()
	menuEl := headerRoot.Find(`[id="` + MobileMenuID + `"]`).First()
	if toggle.Length() == 0 || menuEl.Length() == 0 {
		return nil
	}

	m := NewMenu(menuEl)
	header := headerRoot.Get(0)
	menuNode := menuEl.Get(0)

	events.On(dom.EventClick, toggle.Get(0), func(*dom.Event) {
		m.Toggle()
	})

	events.On(dom.EventClick, menuNode, func(ev *dom.Event) {
		if closestLink(ev.Target, menuNode) != nil {
			m.Close()
		}
	})

	events.On(dom.EventClick, nil, func(ev *dom.Event) {
		if !dom.Within(ev.Target, header) {
			m.Close()
		}
	})

	events.On(dom.EventResize, nil, func(ev *dom.Event) {
		if ev.Width >= DesktopBreakpoint {
			m.Close()
		}
	})

	return m
}

// closestLink walks from n up to scope looking for an <a href>.
func closestLink(n, scope *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.A && hasAttr(n, "href") {
			return n
		}
		if n == scope {
			break
		}
	}

	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}

	return false
}
