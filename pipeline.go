package hxbind

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pthm/hxbind/lib/dom"
)

// ActionEvent is the custom event dispatched for the action instruction.
const ActionEvent = "action"

// Interpreter runs the instruction pipeline for one host element.
type Interpreter struct {
	host     *dom.Element
	proxy    *Proxy
	opts     *options
	resolver Resolver

	// toggleTail is closed when the last queued timed toggle sequence
	// finishes. reversed is only touched by the running sequence.
	toggleMu   sync.Mutex
	toggleTail chan struct{}
	reversed   bool
}

// New creates an interpreter for host.
func New(host *dom.Element, opts ...Option) *Interpreter {
	return newInterpreter(host, newOptions(opts))
}

func newInterpreter(host *dom.Element, o *options) *Interpreter {
	return &Interpreter{
		host:     host,
		proxy:    NewProxy(host, o.schema, o.prefix),
		opts:     o,
		resolver: Resolver{ListTag: o.listTag},
	}
}

// Host returns the element the interpreter reads instructions from.
func (in *Interpreter) Host() *dom.Element { return in.host }

// Proxy returns the host's instruction view.
func (in *Interpreter) Proxy() *Proxy { return in.proxy }

// runContext is the per-invocation state shared by the handlers.
type runContext struct {
	ctx   context.Context
	run   *Run
	log   *slog.Logger
	event *dom.Event
	timed []*dom.Element
}

type handler struct {
	instruction string
	fn          func(in *Interpreter, rc *runContext, target *dom.Element) error
}

// pipeline is the fixed handler order. Later handlers observe the changes
// of earlier ones, so swap and inject run before attribute, property and
// class changes.
var pipeline = []handler{
	{"binding", (*Interpreter).syncBinding},
	{"action", (*Interpreter).dispatchAction},
	{"swap", (*Interpreter).swapContent},
	{"inject", (*Interpreter).injectContent},
	{"attribute", (*Interpreter).setAttributes},
	{"property", (*Interpreter).setProperties},
	{"toggle", (*Interpreter).toggleClasses},
	{"trigger", (*Interpreter).triggerEvents},
	{"calls", (*Interpreter).callFunctions},
	{"exec", (*Interpreter).execCode},
	{"template", (*Interpreter).applyTemplate},
}

// Run resolves the targets and runs every handler against each of them in
// order. Handler failures are logged and never stop the pipeline. The
// returned Run tracks the asynchronous continuations.
func (in *Interpreter) Run(ctx context.Context, evt *dom.Event) *Run {
	if ctx == nil {
		ctx = context.Background()
	}
	log := in.opts.log(ctx).With("host", in.host.Tag())
	if id := in.host.ID(); id != "" {
		log = log.With("host_id", id)
	}
	run := newRun(ctx, log)
	rc := &runContext{ctx: ctx, run: run, log: log, event: evt}

	spec, _ := in.proxy.Target()
	targets, err := in.resolver.Resolve(in.host, spec)
	if err != nil {
		log.Warn("target resolution failed, using host", "target", spec, "error", err)
	}
	run.targets = targets

	for _, t := range targets {
		if t == nil {
			continue
		}
		for _, h := range pipeline {
			if err := h.fn(in, rc, t); err != nil {
				level := slog.LevelWarn
				if IsScriptError(err) {
					level = slog.LevelError
				}
				log.Log(ctx, level, "instruction failed",
					"instruction", h.instruction, "target", t.Tag(), "error", err)
			}
		}
	}
	if len(rc.timed) > 0 {
		in.startToggleSequence(rc)
	}
	return run
}

// syncBinding copies form values from the event's origin onto the target.
func (in *Interpreter) syncBinding(rc *runContext, target *dom.Element) error {
	if rc.event == nil {
		return nil
	}
	origin := rc.event.Target()
	switch {
	case dom.IsFormField(origin):
		if name, v, ok := dom.FieldValue(origin); ok {
			target.SetProp(name, v)
		}
	case dom.IsForm(origin):
		for name, v := range dom.FormValues(origin) {
			target.SetProp(name, v)
		}
	}
	return nil
}

func (in *Interpreter) dispatchAction(rc *runContext, target *dom.Element) error {
	action, ok := in.proxy.Action()
	if !ok {
		return nil
	}
	in.opts.registry.Send(target, ActionEvent, action, true, false, true)
	return nil
}

func (in *Interpreter) triggerEvents(rc *runContext, target *dom.Element) error {
	for _, name := range in.proxy.Triggers() {
		in.opts.registry.Send(target, name, rc.event, true, false, true)
	}
	return nil
}
