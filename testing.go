package hxbind

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/events"
)

// TestEvent is an event sent by an interpreter during TestDispatch.
type TestEvent struct {
	Type   string
	Target *dom.Element
	Detail any
}

// TestResult holds the outcome of a dispatched host event.
//
// Provides convenience methods for asserting on the rendered document and
// on the events the pipeline sent.
type TestResult struct {
	Doc     *dom.Document
	HTML    string
	Events  []TestEvent
	Targets []*dom.Element
	// Err joins the errors of the asynchronous continuations.
	Err error
}

// TestDispatch parses src, binds every element carrying marker
// attributes, dispatches event on the first element matching selector and
// waits for the pipeline to settle.
//
// Use this for end-to-end tests of markup without a browser:
//
//	res, err := hxbind.TestDispatch(ctx, page, "#save", "click")
//	if !res.HasEvent("action") {
//	    t.Fatal("no action sent")
//	}
//
// The binder uses a private event registry unless opts set one.
func TestDispatch(ctx context.Context, src, selector, event string, opts ...Option) (*TestResult, error) {
	doc, err := dom.ParseString(src)
	if err != nil {
		return nil, err
	}
	return TestDispatchDocument(ctx, doc, selector, event, opts...)
}

// TestDispatchDocument is TestDispatch over an existing document.
func TestDispatchDocument(ctx context.Context, doc *dom.Document, selector, event string, opts ...Option) (*TestResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b := NewBinder(append([]Option{WithRegistry(events.NewRegistry())}, opts...)...)
	b.SetContext(ctx)

	res := &TestResult{Doc: doc}
	var mu sync.Mutex
	untap := b.opts.registry.Tap(func(el *dom.Element, evt *dom.Event) {
		mu.Lock()
		res.Events = append(res.Events, TestEvent{Type: evt.Type, Target: el, Detail: evt.Detail})
		mu.Unlock()
	})
	defer untap()

	b.Scan(doc)
	stop := b.Observe(doc)
	defer stop()

	el, err := doc.Query(selector, true)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("hxbind: no element matches %q", selector)
	}
	if event == "" {
		event = b.opts.event
	}

	if in, ok := b.Interpreter(el); ok {
		spec, _ := in.proxy.Target()
		res.Targets, _ = in.resolver.Resolve(el, spec)
	}
	el.DispatchEvent(dom.NewCustomEvent(event, nil, true, true, true))
	res.Err = b.Wait()
	res.HTML = doc.HTML()
	return res, nil
}

// HTMLContains checks if the rendered document contains the substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the rendered document contains all substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent reports whether an event of the given type was sent.
func (r *TestResult) HasEvent(typ string) bool {
	_, ok := r.EventDetail(typ)
	return ok
}

// EventDetail returns the detail of the first event of the given type.
func (r *TestResult) EventDetail(typ string) (any, bool) {
	for _, e := range r.Events {
		if e.Type == typ {
			return e.Detail, true
		}
	}
	return nil, false
}

// EventTypes returns the types of the sent events in order.
func (r *TestResult) EventTypes() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}

// Element returns the first element matching selector, shadow trees
// included, or nil.
func (r *TestResult) Element(selector string) *dom.Element {
	el, err := r.Doc.Query(selector, true)
	if err != nil {
		return nil
	}
	return el
}

// HasClass reports whether the element matching selector has class.
func (r *TestResult) HasClass(selector, class string) bool {
	el := r.Element(selector)
	return el != nil && el.ClassList().Contains(class)
}

// Attr returns an attribute of the element matching selector.
func (r *TestResult) Attr(selector, name string) (string, bool) {
	el := r.Element(selector)
	if el == nil {
		return "", false
	}
	return el.Attr(name)
}
