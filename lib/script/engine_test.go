package script

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/pthm/hxbind/lib/dom"
)

func target(t *testing.T) *dom.Element {
	t.Helper()
	d, err := dom.ParseString(`<div id="box" class="a" data-x="1"><span>hi</span></div>`)
	if err != nil {
		t.Fatal(err)
	}
	return d.ElementByID("box")
}

func TestExecBindsThis(t *testing.T) {
	el := target(t)
	e := New(nil)

	tests := []struct {
		name  string
		src   string
		check func(*dom.Element) bool
	}{
		{"style", `this.style.color = 'red'; this.style.backgroundColor = 'blue'`, func(el *dom.Element) bool {
			return el.Style("color") == "red" && el.Style("background-color") == "blue"
		}},
		{"classList", `this.classList.add('b'); this.classList.toggle('a')`, func(el *dom.Element) bool {
			return el.ClassList().Contains("b") && !el.ClassList().Contains("a")
		}},
		{"attributes", `this.setAttribute('data-y', this.getAttribute('data-x') + '2')`, func(el *dom.Element) bool {
			v, _ := el.Attr("data-y")
			return v == "12"
		}},
		{"props", `this.count = 3`, func(el *dom.Element) bool {
			v, _ := el.Prop("count")
			return v == int64(3)
		}},
		{"event arg", `this.seen = event.type + ':' + event.detail`, func(el *dom.Element) bool {
			v, _ := el.Prop("seen")
			return v == "click:7"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := dom.NewCustomEvent("click", 7, true, false, true)
			if err := e.Exec(context.Background(), el, tt.src, evt); err != nil {
				t.Fatalf("Exec() error = %v", err)
			}
			if !tt.check(el) {
				t.Errorf("unexpected element state: %s", el.OuterHTML())
			}
		})
	}
}

func TestExecErrors(t *testing.T) {
	el := target(t)
	e := New(nil)

	tests := []struct {
		name string
		src  string
	}{
		{"throw", `throw new Error('boom')`},
		{"syntax", `this.style.color = `},
		{"reference", `missing.call()`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Exec(context.Background(), el, tt.src, nil)
			if !errors.Is(err, ErrScript) {
				t.Errorf("Exec() error = %v, want ErrScript", err)
			}
		})
	}

	if err := e.Exec(context.Background(), el, `this.ok = true`, nil); err != nil {
		t.Errorf("engine unusable after errors: %v", err)
	}
}

func TestExecInterrupt(t *testing.T) {
	el := target(t)
	e := New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := e.Exec(ctx, el, `for (;;) {}`, nil)
	if !errors.Is(err, ErrScript) {
		t.Errorf("Exec() error = %v, want ErrScript", err)
	}
	if err := e.Exec(context.Background(), el, `this.after = 1`, nil); err != nil {
		t.Errorf("interrupt was not cleared: %v", err)
	}
}

func TestCallStoredFunction(t *testing.T) {
	el := target(t)
	e := New(nil)

	if err := e.Exec(context.Background(), el, `this.handlers = { save: function(v) { this.saved = v.name; return 'ok'; } }`, nil); err != nil {
		t.Fatal(err)
	}
	handlers, ok := el.Prop("handlers")
	if !ok {
		t.Fatal("handlers property missing")
	}
	fn, ok := e.Member(handlers, "save")
	if !ok || !Callable(fn) {
		t.Fatalf("Member(save) = %v, %v", fn, ok)
	}

	out, err := e.Call(context.Background(), el, fn, map[string]any{"name": "draft"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out != "ok" {
		t.Errorf("Call() = %v", out)
	}
	if v, _ := el.Prop("saved"); v != "draft" {
		t.Errorf("saved = %v", v)
	}

	if _, err := e.Call(context.Background(), el, "not a function", nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("Call() error = %v, want ErrNotCallable", err)
	}
}

func TestCallEventArgument(t *testing.T) {
	el := target(t)
	e := New(nil)
	fn, err := e.Eval(context.Background(), `(function(ev) { ev.preventDefault(); return ev.type; })`)
	if err != nil {
		t.Fatal(err)
	}
	evt := dom.NewCustomEvent("submit", nil, true, false, true)
	out, err := e.Call(context.Background(), el, fn, evt)
	if err != nil {
		t.Fatal(err)
	}
	if out != "submit" || !evt.DefaultPrevented() {
		t.Errorf("Call() = %v, prevented = %v", out, evt.DefaultPrevented())
	}
}

func TestConsoleLogs(t *testing.T) {
	var buf bytes.Buffer
	e := New(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := e.Exec(context.Background(), target(t), `console.warn('careful', 1)`, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "careful 1") || !strings.Contains(buf.String(), "WARN") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestCompile(t *testing.T) {
	e := New(nil)
	if err := e.Compile(`this.hidden = true`); err != nil {
		t.Errorf("Compile() error = %v", err)
	}
	if err := e.Compile(`this.hidden = (`); !errors.Is(err, ErrScript) {
		t.Errorf("Compile() error = %v, want ErrScript", err)
	}
}
