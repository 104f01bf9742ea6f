package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// EventType names a dispatched event.
type EventType string

const (
	EventClick            EventType = "click"
	EventResize           EventType = "resize"
	EventSubmit           EventType = "submit"
	EventDOMContentLoaded EventType = "DOMContentLoaded"
)

// Event is a single dispatched event. Target is nil for window-level events
// (resize, DOMContentLoaded).
type Event struct {
	Type   EventType
	Target *html.Node
	// Width is the viewport width after a resize.
	Width int

	defaultPrevented bool
}

// PreventDefault cancels the event's default action, e.g. a full-page form submit.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Listener handles an event.
type Listener func(ev *Event)

// Subscriber is the registration side of an event source.
type Subscriber interface {
	// On registers fn for events of type typ. A nil scope subscribes at the
	// document/window level; otherwise fn runs only for events whose target
	// is scope or one of its descendants.
	On(typ EventType, scope *html.Node, fn Listener)
}

type subscription struct {
	typ   EventType
	scope *html.Node
	fn    Listener
}

// EventBus fans events out to subscriptions in registration order.
// Subscriptions live as long as the bus; there is no detach, since a page's
// fragments are replaced wholesale on the next load.
type EventBus struct {
	mu   sync.Mutex
	subs []subscription
}

var _ Subscriber = (*EventBus)(nil)

func (b *EventBus) On(typ EventType, scope *html.Node, fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, subscription{typ: typ, scope: scope, fn: fn})
}

// Count returns the number of subscriptions for typ.
func (b *EventBus) Count(typ EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, s := range b.subs {
		if s.typ == typ {
			n++
		}
	}

	return n
}

// Dispatch delivers ev to every matching subscription. Listeners run
// outside the bus lock and may register further subscriptions; those only
// see later events.
func (b *EventBus) Dispatch(ev *Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.typ != ev.Type {
			continue
		}
		if s.scope != nil && !Within(ev.Target, s.scope) {
			continue
		}
		s.fn(ev)
	}
}

// Within reports whether n is scope or a descendant of it.
func Within(n, scope *html.Node) bool {
	if scope == nil {
		return false
	}
	for ; n != nil; n = n.Parent {
		if n == scope {
			return true
		}
	}

	return false
}
