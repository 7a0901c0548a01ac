package hxbind

import (
	"context"
	"fmt"
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// Func is a Go function callable from the call instruction when stored in
// an element property. target is the element the call is bound to; arg is
// the host's value instruction or the triggering event.
type Func func(ctx context.Context, target *dom.Element, arg any) error

// callFunctions resolves each name of the call instruction as a property
// path on the target and invokes it. Failures are reported per call and do
// not stop the remaining calls.
func (in *Interpreter) callFunctions(rc *runContext, target *dom.Element) error {
	paths := in.proxy.Calls()
	if len(paths) == 0 {
		return nil
	}
	var arg any = rc.event
	if in.proxy.Has("value") {
		arg = in.proxy.Decoded("value")
	}
	for _, path := range paths {
		if err := in.call(rc, target, path, arg); err != nil {
			rc.log.Error("call failed", "instruction", "calls", "path", path, "target", target.Tag(), "error", err)
		}
	}
	return nil
}

func (in *Interpreter) call(rc *runContext, target *dom.Element, path string, arg any) error {
	fn, ok := in.lookup(target, path)
	if !ok {
		return fmt.Errorf("%w: %s not found", ErrNotCallable, path)
	}
	switch f := fn.(type) {
	case Func:
		return callFunc(rc.ctx, f, target, arg)
	case func(context.Context, *dom.Element, any) error:
		return callFunc(rc.ctx, f, target, arg)
	}
	if in.opts.scripter == nil {
		return fmt.Errorf("%w: %s (scripting disabled)", ErrNotCallable, path)
	}
	_, err := in.opts.scripter.Call(rc.ctx, target, fn, arg)
	return wrapLibError(err)
}

// lookup walks a dotted property path starting at the target's properties.
// Intermediate values may be Go maps or script objects.
func (in *Interpreter) lookup(target *dom.Element, path string) (any, bool) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	cur, ok := target.Prop(parts[0])
	if !ok {
		return nil, false
	}
	for _, name := range parts[1:] {
		switch m := cur.(type) {
		case map[string]any:
			cur, ok = m[name]
		case map[string]Func:
			cur, ok = m[name]
		default:
			if in.opts.scripter == nil {
				return nil, false
			}
			cur, ok = in.opts.scripter.Member(cur, name)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// execCode runs the exec source bound to the target. Errors are logged by
// the pipeline and never propagate.
func (in *Interpreter) execCode(rc *runContext, target *dom.Element) error {
	src, ok := in.proxy.Exec()
	if !ok || strings.TrimSpace(src) == "" {
		return nil
	}
	if in.opts.scripter == nil {
		rc.log.Debug("scripting disabled, exec skipped")
		return nil
	}
	return wrapLibError(in.opts.scripter.Exec(rc.ctx, target, src, rc.event))
}

// callFunc invokes a Go function. A panic inside it is reported as a
// script error.
func callFunc(ctx context.Context, f Func, target *dom.Element, arg any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrScript, p)
		}
	}()
	return wrapUserError(f(ctx, target, arg))
}

func wrapUserError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrScript, err)
}
