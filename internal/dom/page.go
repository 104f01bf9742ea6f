// Package dom models the browser page the layout and form scripts run
// against: a parsed document, the location it was loaded from, a viewport
// and an event bus. Passing a Page explicitly replaces reads of ambient
// globals, so every pass over the markup is deterministic under test.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ReadyState mirrors document.readyState as far as the scripts care.
type ReadyState int

const (
	// Loading means the structural content is still being parsed.
	Loading ReadyState = iota
	// Interactive means the document is parsed and scripts may query it.
	Interactive
)

// Page is a loaded document. It is not safe for concurrent mutation; like a
// browser tab, one logical thread of control drives it.
type Page struct {
	doc      *goquery.Document
	location *url.URL
	events   *EventBus
	width    int

	mu      sync.Mutex
	state   ReadyState
	pending []func()
}

// Option customizes a Page at parse time.
type Option func(*Page)

// WithLoadingState leaves the page in the Loading state until MarkReady.
func WithLoadingState() Option {
	return func(p *Page) { p.state = Loading }
}

// WithViewportWidth sets the initial viewport width in logical pixels.
func WithViewportWidth(width int) Option {
	return func(p *Page) { p.width = width }
}

// Parse reads an HTML document loaded from location.
func Parse(r io.Reader, location string, opts ...Option) (*Page, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("could not parse location: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse document: %w", err)
	}

	p := &Page{
		doc:      doc,
		location: loc,
		events:   &EventBus{},
		state:    Interactive,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(markup, location string, opts ...Option) (*Page, error) {
	return Parse(strings.NewReader(markup), location, opts...)
}

// Document exposes the underlying goquery document.
func (p *Page) Document() *goquery.Document { return p.doc }

// Location returns the URL the page was loaded from.
func (p *Page) Location() *url.URL { return p.location }

// CurrentPath returns the raw path component of the location.
func (p *Page) CurrentPath() string { return p.location.Path }

// Events returns the page's event bus.
func (p *Page) Events() *EventBus { return p.events }

// Width returns the current viewport width.
func (p *Page) Width() int { return p.width }

// QueryAll runs a CSS selector against the whole document.
func (p *Page) QueryAll(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// ByID returns the first element whose id attribute equals id, or an empty
// selection. The comparison is literal, so ids that are not valid CSS
// identifiers still match.
func (p *Page) ByID(id string) *goquery.Selection {
	return p.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")

		return v == id
	}).First()
}

// HTML renders the current document, doctype included.
func (p *Page) HTML() (string, error) {
	out, err := p.doc.Html()
	if err != nil {
		return "", fmt.Errorf("could not render document: %w", err)
	}

	return out, nil
}

// Click dispatches a click whose target is the first node of sel.
func (p *Page) Click(sel *goquery.Selection) *Event {
	ev := &Event{Type: EventClick}
	if sel.Length() > 0 {
		ev.Target = sel.Get(0)
	}
	p.events.Dispatch(ev)

	return ev
}

// Submit dispatches a submit event targeting form.
func (p *Page) Submit(form *goquery.Selection) *Event {
	ev := &Event{Type: EventSubmit}
	if form.Length() > 0 {
		ev.Target = form.Get(0)
	}
	p.events.Dispatch(ev)

	return ev
}

// Resize changes the viewport width and dispatches a resize event.
func (p *Page) Resize(width int) *Event {
	p.width = width
	ev := &Event{Type: EventResize, Width: width}
	p.events.Dispatch(ev)

	return ev
}

// ReadyState returns the current ready state.
func (p *Page) ReadyState() ReadyState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// WhenReady runs fn immediately when the document is parsed, or defers it
// until MarkReady otherwise.
func (p *Page) WhenReady(fn func()) {
	p.mu.Lock()
	if p.state == Loading {
		p.pending = append(p.pending, fn)
		p.mu.Unlock()

		return
	}
	p.mu.Unlock()

	fn()
}

// MarkReady moves a loading page to Interactive, dispatches
// DOMContentLoaded and runs deferred WhenReady callbacks once. Calling it on
// a page that is already interactive does nothing.
func (p *Page) MarkReady() {
	p.mu.Lock()
	if p.state != Loading {
		p.mu.Unlock()

		return
	}
	p.state = Interactive
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	p.events.Dispatch(&Event{Type: EventDOMContentLoaded})
	for _, fn := range pending {
		fn()
	}
}
