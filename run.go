package hxbind

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pthm/hxbind/lib/dom"
)

// Run tracks one pipeline invocation. The synchronous handlers have
// finished when Run is returned; Wait blocks until the asynchronous
// continuations (content loads, template loads, timed toggles) settle.
type Run struct {
	ctx     context.Context
	log     *slog.Logger
	g       errgroup.Group
	targets []*dom.Element
}

func newRun(ctx context.Context, log *slog.Logger) *Run {
	return &Run{ctx: ctx, log: log}
}

// Targets returns the elements the pipeline ran against.
func (r *Run) Targets() []*dom.Element { return r.targets }

// Wait blocks until every continuation has finished and returns the first
// error one of them reported. Failures are logged as they happen as well.
func (r *Run) Wait() error {
	return r.g.Wait()
}

// Go starts a continuation. A panic inside fn is converted to an error.
func (r *Run) Go(instruction string, fn func(ctx context.Context) error) {
	r.g.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("hxbind: %s: panic: %v", instruction, p)
			}
			if err != nil {
				r.log.Error("async instruction failed", "instruction", instruction, "error", err)
			}
		}()
		return fn(r.ctx)
	})
}
