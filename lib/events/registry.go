// Package events keeps track of the listeners a component attaches to
// elements, so that the same (owner, element, name, listener) tuple is only
// ever registered once and can be removed again by its owner.
package events

import (
	"context"
	"sync"

	"github.com/pthm/hxbind/lib/dom"
)

// Handler is an event callback. Handlers are identified by pointer.
type Handler = dom.Listener

// NewHandler wraps fn into a Handler.
func NewHandler(fn func(*dom.Event)) *Handler {
	return dom.NewListener(fn)
}

type key struct {
	owner any
	el    *dom.Element
	name  string
	h     *Handler
}

// Registry deduplicates listener registrations. The zero value is not
// usable; create one with NewRegistry.
type Registry struct {
	mu      sync.Mutex
	entries map[key]*dom.Listener
	taps    map[int]func(*dom.Element, *dom.Event)
	nextTap int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[key]*dom.Listener)}
}

// Default is the process-wide registry used when none is configured.
var Default = NewRegistry()

// Attach registers h for name on el on behalf of owner. It returns false
// when the tuple is already registered. With once, the registration is
// dropped after the first event.
func (r *Registry) Attach(owner any, el *dom.Element, name string, h *Handler, once bool) bool {
	if el == nil || h == nil || name == "" {
		return false
	}
	k := key{owner, el, name, h}

	r.mu.Lock()
	if _, ok := r.entries[k]; ok {
		r.mu.Unlock()
		return false
	}
	l := &dom.Listener{Once: once}
	l.Fn = func(evt *dom.Event) {
		if once {
			r.mu.Lock()
			if r.entries[k] == l {
				delete(r.entries, k)
			}
			r.mu.Unlock()
		}
		h.Fn(evt)
	}
	r.entries[k] = l
	r.mu.Unlock()

	el.AddEventListener(name, l)
	return true
}

// Remove unregisters the tuple. Removing an unknown tuple is a no-op.
func (r *Registry) Remove(owner any, el *dom.Element, name string, h *Handler) {
	k := key{owner, el, name, h}
	r.mu.Lock()
	l, ok := r.entries[k]
	delete(r.entries, k)
	r.mu.Unlock()
	if ok {
		el.RemoveEventListener(name, l)
	}
}

// RemoveAll unregisters everything owner attached to el. A nil el removes
// the owner's registrations on every element.
func (r *Registry) RemoveAll(owner any, el *dom.Element) int {
	type victim struct {
		el   *dom.Element
		name string
		l    *dom.Listener
	}
	var victims []victim
	r.mu.Lock()
	for k, l := range r.entries {
		if k.owner == owner && (el == nil || k.el == el) {
			victims = append(victims, victim{k.el, k.name, l})
			delete(r.entries, k)
		}
	}
	r.mu.Unlock()
	for _, v := range victims {
		v.el.RemoveEventListener(v.name, v.l)
	}
	return len(victims)
}

// Has reports whether the tuple is registered.
func (r *Registry) Has(owner any, el *dom.Element, name string, h *Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key{owner, el, name, h}]
	return ok
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Send dispatches a custom event on el and reports whether it was not
// cancelled. Taps see the event after dispatch.
func (r *Registry) Send(el *dom.Element, name string, detail any, bubbles, composed, cancelable bool) bool {
	if el == nil {
		return false
	}
	evt := dom.NewCustomEvent(name, detail, bubbles, composed, cancelable)
	ok := el.DispatchEvent(evt)

	r.mu.Lock()
	taps := make([]func(*dom.Element, *dom.Event), 0, len(r.taps))
	for _, fn := range r.taps {
		taps = append(taps, fn)
	}
	r.mu.Unlock()
	for _, fn := range taps {
		fn(el, evt)
	}
	return ok
}

// Tap registers fn to observe every event sent through r and returns a
// function that removes it.
func (r *Registry) Tap(fn func(el *dom.Element, evt *dom.Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taps == nil {
		r.taps = make(map[int]func(*dom.Element, *dom.Event))
	}
	id := r.nextTap
	r.nextTap++
	r.taps[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.taps, id)
		r.mu.Unlock()
	}
}

// Wait blocks until name fires on el or ctx is done.
func (r *Registry) Wait(ctx context.Context, el *dom.Element, name string) (*dom.Event, error) {
	ch := make(chan *dom.Event, 1)
	h := NewHandler(func(evt *dom.Event) {
		select {
		case ch <- evt:
		default:
		}
	})
	owner := &ch
	r.Attach(owner, el, name, h, true)
	defer r.Remove(owner, el, name, h)

	select {
	case evt := <-ch:
		return evt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
