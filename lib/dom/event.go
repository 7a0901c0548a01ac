package dom

import "golang.org/x/net/html"

// Event is dispatched to an element and, when it bubbles, to its ancestors.
// Composed events continue from a shadow tree to its host.
type Event struct {
	Type       string
	Detail     any
	Bubbles    bool
	Composed   bool
	Cancelable bool

	target           *Element
	currentTarget    *Element
	defaultPrevented bool
	stopped          bool
	immediate        bool
}

// NewEvent returns a non-bubbling, non-cancelable event.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// NewCustomEvent returns an event carrying detail.
func NewCustomEvent(typ string, detail any, bubbles, composed, cancelable bool) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: bubbles, Composed: composed, Cancelable: cancelable}
}

// Target returns the element the event was dispatched to.
func (e *Event) Target() *Element { return e.target }

// CurrentTarget returns the element whose listeners are running.
func (e *Event) CurrentTarget() *Element { return e.currentTarget }

// PreventDefault marks a cancelable event as cancelled.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event after the current element's listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation also skips the remaining listeners of the
// current element.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.immediate = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// Listener wraps an event callback. Listeners are compared by pointer, so
// the same *Listener is registered at most once per element and type.
type Listener struct {
	Fn   func(*Event)
	Once bool
}

// NewListener returns a listener for fn.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{Fn: fn}
}

// TriggerOnce makes the listener remove itself after its first call.
func (l *Listener) TriggerOnce() *Listener {
	l.Once = true
	return l
}

// AddEventListener registers l for typ. It reports false when l is already
// registered.
func (e *Element) AddEventListener(typ string, l *Listener) bool {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range e.listeners[typ] {
		if h == l {
			return false
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], l)
	return true
}

// RemoveEventListener unregisters l and reports whether it was registered.
func (e *Element) RemoveEventListener(typ string, l *Listener) bool {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	return e.removeListener(typ, l)
}

func (e *Element) removeListener(typ string, l *Listener) bool {
	list := e.listeners[typ]
	for i, h := range list {
		if h == l {
			e.listeners[typ] = append(list[:i:i], list[i+1:]...)
			if len(e.listeners[typ]) == 0 {
				delete(e.listeners, typ)
			}
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return len(e.listeners[typ])
}

// DispatchEvent runs the listeners at the target, then, for bubbling
// events, on each ancestor. It returns false when a listener cancelled the
// event.
func (e *Element) DispatchEvent(evt *Event) bool {
	evt.target = e
	for _, el := range e.eventPath(evt) {
		evt.currentTarget = el
		el.handle(evt)
		if evt.stopped {
			break
		}
	}
	evt.currentTarget = nil
	return !evt.defaultPrevented
}

func (e *Element) eventPath(evt *Event) []*Element {
	d := e.doc
	d.mu.RLock()
	defer d.mu.RUnlock()
	path := []*Element{e}
	if !evt.Bubbles {
		return path
	}
	n := e.node
	for {
		p := n.Parent
		if p == nil {
			break
		}
		if host, ok := d.hosts[p]; ok {
			if !evt.Composed {
				break
			}
			path = append(path, host)
			n = host.node
			continue
		}
		if p.Type != html.ElementNode {
			break
		}
		path = append(path, d.wrap(p))
		n = p
	}
	return path
}

func (e *Element) handle(evt *Event) {
	d := e.doc
	d.mu.RLock()
	list := append([]*Listener(nil), e.listeners[evt.Type]...)
	d.mu.RUnlock()
	for _, l := range list {
		if l.Once {
			d.mu.Lock()
			removed := e.removeListener(evt.Type, l)
			d.mu.Unlock()
			if !removed {
				continue
			}
		}
		l.Fn(evt)
		if evt.immediate {
			return
		}
	}
}
