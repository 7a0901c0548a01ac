package hxbind

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pthm/hxbind/lib/dom"
)

// toggleClasses flips every listed class at once when there is no timeout.
// With a positive timeout the target is queued for a timed sequence that
// starts after the synchronous handlers.
func (in *Interpreter) toggleClasses(rc *runContext, target *dom.Element) error {
	classes := in.proxy.Toggles()
	if len(classes) == 0 {
		return nil
	}
	if in.proxy.Timeout() <= 0 {
		cl := target.ClassList()
		for _, c := range classes {
			cl.Toggle(c)
		}
		return nil
	}
	rc.timed = append(rc.timed, target)
	return nil
}

// startToggleSequence toggles the classes one at a time on every queued
// target, waiting timeout seconds between classes. Successive sequences
// alternate between list order and reversed order.
//
// Sequences on the same host run one after another in trigger order. Each
// takes its place in the queue synchronously, before Run returns, and waits
// for its predecessor to finish. The direction is read when a sequence
// starts and flipped when it completes.
func (in *Interpreter) startToggleSequence(rc *runContext) {
	classes := in.proxy.Toggles()
	delay := time.Duration(in.proxy.Timeout() * float64(time.Second))
	targets := rc.timed

	in.toggleMu.Lock()
	prev := in.toggleTail
	done := make(chan struct{})
	in.toggleTail = done
	in.toggleMu.Unlock()

	rc.run.Go("toggle", func(ctx context.Context) error {
		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				// the next sequence still waits for the one before this
				go func() {
					<-prev
					close(done)
				}()
				return ctx.Err()
			}
		}
		defer close(done)

		order := classes
		if in.reversed {
			order = slices.Clone(classes)
			slices.Reverse(order)
		}

		var wg sync.WaitGroup
		errs := make([]error, len(targets))
		for i, t := range targets {
			wg.Add(1)
			go func(i int, t *dom.Element) {
				defer wg.Done()
				errs[i] = in.toggleSequence(ctx, t, order, delay)
			}(i, t)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		in.reversed = !in.reversed
		return nil
	})
}

func (in *Interpreter) toggleSequence(ctx context.Context, target *dom.Element, order []string, delay time.Duration) error {
	cl := target.ClassList()
	for i, c := range order {
		if i > 0 {
			select {
			case <-in.opts.clock.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		cl.Toggle(c)
	}
	return nil
}
