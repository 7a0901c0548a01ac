// Package script runs the JavaScript snippets found in exec and call
// instructions on top of github.com/dop251/goja.
//
// An Engine owns a single goja runtime. Runtimes are not safe for concurrent
// use, so every entry point serialises on the engine mutex. The mutex is not
// reentrant: element wrappers deliberately expose no way to dispatch events
// from script, because a listener running another snippet would block.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/pthm/hxbind/lib/dom"
)

// Sentinel errors.
var (
	ErrScript      = errors.New("script: evaluation failed")
	ErrNotCallable = errors.New("script: value is not callable")
)

// Engine evaluates snippets against elements.
type Engine struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	programs map[string]*goja.Program
	logger   *slog.Logger
}

// New creates an engine. Script calls to console.log and friends are
// forwarded to logger; a nil logger uses slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		vm:       goja.New(),
		programs: make(map[string]*goja.Program),
		logger:   logger,
	}
	e.installConsole()
	return e
}

func (e *Engine) installConsole() {
	console := e.vm.NewObject()
	for name, level := range map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		level := level
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			e.logger.Log(context.Background(), level, strings.Join(parts, " "), "source", "script")
			return goja.Undefined()
		})
	}
	e.vm.Set("console", console)
}

// Set defines a global variable visible to every snippet.
func (e *Engine) Set(name string, v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vm.Set(name, v)
}

// Exec compiles src as the body of a function taking one parameter, event,
// and invokes it with this bound to target. Exceptions are returned wrapped
// in ErrScript. A ctx deadline interrupts long-running snippets.
func (e *Engine) Exec(ctx context.Context, target *dom.Element, src string, evt *dom.Event) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recover(&err)

	stop := e.watch(ctx)
	defer stop()

	prog, err := e.compile(src)
	if err != nil {
		return err
	}
	fnVal, err := e.vm.RunProgram(prog)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return ErrNotCallable
	}
	if _, err := fn(e.wrapElement(target), e.wrapEvent(evt)); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

// Call invokes fn with this bound to target. fn is a function value taken
// from script (stored in an element property, say) or any Go func goja can
// wrap. A *dom.Event argument is passed as an event object, anything else
// is converted with the usual goja rules. The result is exported to Go.
func (e *Engine) Call(ctx context.Context, target *dom.Element, fn any, arg any) (result any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recover(&err)

	stop := e.watch(ctx)
	defer stop()

	v, ok := fn.(goja.Value)
	if !ok {
		v = e.vm.ToValue(fn)
	}
	callable, ok := goja.AssertFunction(v)
	if !ok {
		return nil, ErrNotCallable
	}
	var argVal goja.Value
	if evt, ok := arg.(*dom.Event); ok {
		argVal = e.wrapEvent(evt)
	} else {
		argVal = e.vm.ToValue(arg)
	}
	out, err := callable(e.wrapElement(target), argVal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return out.Export(), nil
}

// Callable reports whether v is a script function.
func Callable(v any) bool {
	gv, ok := v.(goja.Value)
	if !ok {
		return false
	}
	_, ok = goja.AssertFunction(gv)
	return ok
}

// Member looks up name on a script object. Functions are returned as
// script values so they stay callable; other values are exported.
func (e *Engine) Member(v any, name string) (any, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	m := obj.Get(name)
	if m == nil || goja.IsUndefined(m) {
		return nil, false
	}
	if _, ok := goja.AssertFunction(m); ok {
		return m, true
	}
	return m.Export(), true
}

// Eval runs src as a plain script and returns its exported completion
// value.
func (e *Engine) Eval(ctx context.Context, src string) (result any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recover(&err)

	stop := e.watch(ctx)
	defer stop()

	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	if _, ok := goja.AssertFunction(v); ok {
		return v, nil
	}
	return v.Export(), nil
}

// Compile checks that src is a valid exec body and caches the program.
func (e *Engine) Compile(src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.compile(src)
	return err
}

func (e *Engine) compile(src string) (*goja.Program, error) {
	if p, ok := e.programs[src]; ok {
		return p, nil
	}
	p, err := goja.Compile("exec", "(function(event) {\n"+src+"\n})", false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	e.programs[src] = p
	return p, nil
}

// watch interrupts the runtime when ctx ends. The returned func must be
// called before the engine lock is released.
func (e *Engine) watch(ctx context.Context) func() {
	if ctx == nil || ctx.Done() == nil {
		return func() {}
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(ctx.Err())
		close(fired)
	})
	return func() {
		if !stop() {
			<-fired
		}
		e.vm.ClearInterrupt()
	}
}

func (e *Engine) recover(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: panic: %v", ErrScript, r)
	}
}
