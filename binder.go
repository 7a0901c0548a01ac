package hxbind

import (
	"context"
	"errors"
	"sync"

	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/events"
)

// binding is the per-element record kept by a Binder.
type binding struct {
	interp   *Interpreter
	attached bool
	event    string
	handler  *events.Handler
}

// Binder owns at most one interpreter per element and subscribes it to a
// host event. Records live in a side table keyed by element and are dropped
// when the element is detached, so none outlives its element.
type Binder struct {
	opts *options
	ctx  context.Context

	mu       sync.Mutex
	bindings map[*dom.Element]*binding

	inflight sync.WaitGroup
	errMu    sync.Mutex
	errs     []error
}

// NewBinder creates a binder. Interpreters it creates share opts.
func NewBinder(opts ...Option) *Binder {
	return &Binder{
		opts:     newOptions(opts),
		ctx:      context.Background(),
		bindings: make(map[*dom.Element]*binding),
	}
}

// SetContext sets the context used by runs started from host events. It
// may carry a logger (see ContextWithLogger) and cancels pending
// continuations when done.
func (b *Binder) SetContext(ctx context.Context) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()
}

func (b *Binder) context() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// Process runs the pipeline for el, creating its interpreter on first use.
func (b *Binder) Process(ctx context.Context, el *dom.Element, evt *dom.Event) *Run {
	b.mu.Lock()
	rec := b.record(el)
	b.mu.Unlock()
	run := rec.interp.Run(ctx, evt)
	b.track(run)
	return run
}

// Create returns el's interpreter, creating it if needed, and attaches it
// to the configured event.
func (b *Binder) Create(el *dom.Element) *Interpreter {
	b.Attach(el, "")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record(el).interp
}

// Interpreter returns el's interpreter if one exists.
func (b *Binder) Interpreter(el *dom.Element) (*Interpreter, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.bindings[el]
	if !ok {
		return nil, false
	}
	return rec.interp, true
}

// Attach subscribes el's interpreter to event (the configured event when
// empty). Attaching an attached element is a no-op and reports false.
func (b *Binder) Attach(el *dom.Element, event string) bool {
	if event == "" {
		event = b.opts.event
	}
	b.mu.Lock()
	rec := b.record(el)
	if rec.attached {
		b.mu.Unlock()
		return false
	}
	rec.attached = true
	rec.event = event
	if rec.handler == nil {
		rec.handler = events.NewHandler(func(evt *dom.Event) {
			b.Process(b.context(), el, evt)
		})
	}
	h := rec.handler
	b.mu.Unlock()

	b.opts.registry.Attach(b, el, event, h, false)
	return true
}

// Detach unsubscribes el. Detaching an element that is not attached is a
// no-op and reports false. The interpreter is kept.
func (b *Binder) Detach(el *dom.Element) bool {
	b.mu.Lock()
	rec, ok := b.bindings[el]
	if !ok || !rec.attached {
		b.mu.Unlock()
		return false
	}
	rec.attached = false
	event, h := rec.event, rec.handler
	b.mu.Unlock()

	b.opts.registry.Remove(b, el, event, h)
	return true
}

// Release detaches el and drops its record.
func (b *Binder) Release(el *dom.Element) {
	b.Detach(el)
	b.mu.Lock()
	delete(b.bindings, el)
	b.mu.Unlock()
}

// Attached reports whether el is subscribed.
func (b *Binder) Attached(el *dom.Element) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.bindings[el]
	return ok && rec.attached
}

// Len returns the number of binding records.
func (b *Binder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bindings)
}

// IsBindable reports whether el carries any marker attribute.
func (b *Binder) IsBindable(el *dom.Element) bool {
	if el == nil {
		return false
	}
	for _, a := range b.opts.schema.Attributes() {
		if el.HasAttr(b.opts.prefix + a) {
			return true
		}
	}
	return false
}

// Clone copies the marker attributes of from onto to. Without override,
// attributes already present on to are kept. It returns the number of
// attributes written.
func (b *Binder) Clone(from, to *dom.Element, override bool) int {
	n := 0
	for _, a := range b.opts.schema.Attributes() {
		name := b.opts.prefix + a
		v, ok := from.Attr(name)
		if !ok {
			continue
		}
		if !override && to.HasAttr(name) {
			continue
		}
		to.SetAttr(name, v)
		n++
	}
	return n
}

// Scan creates and attaches an interpreter for every bindable element of
// doc, shadow trees included, and returns how many it found.
func (b *Binder) Scan(doc *dom.Document) int {
	n := 0
	doc.Walk(true, func(el *dom.Element) bool {
		if b.IsBindable(el) {
			b.Create(el)
			n++
		}
		return true
	})
	return n
}

// Observe keeps doc bound: bindable elements are bound when they are
// connected and released when they are disconnected. It returns a function
// that stops observing.
func (b *Binder) Observe(doc *dom.Document) func() {
	return doc.Observe(b)
}

// Connected implements dom.Observer.
func (b *Binder) Connected(el *dom.Element) {
	if b.IsBindable(el) {
		b.Create(el)
	}
}

// Disconnected implements dom.Observer.
func (b *Binder) Disconnected(el *dom.Element) {
	b.Release(el)
}

// Wait blocks until every run started through the binder has settled and
// returns their errors joined.
func (b *Binder) Wait() error {
	b.inflight.Wait()
	b.errMu.Lock()
	defer b.errMu.Unlock()
	err := errors.Join(b.errs...)
	b.errs = nil
	return err
}

func (b *Binder) track(run *Run) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		if err := run.Wait(); err != nil {
			b.errMu.Lock()
			b.errs = append(b.errs, err)
			b.errMu.Unlock()
		}
	}()
}

// record returns el's binding, creating it. Callers hold b.mu.
func (b *Binder) record(el *dom.Element) *binding {
	rec, ok := b.bindings[el]
	if !ok {
		rec = &binding{interp: newInterpreter(el, b.opts)}
		b.bindings[el] = rec
	}
	return rec
}
