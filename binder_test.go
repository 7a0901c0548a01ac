package hxbind

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm/hxbind/internal/ctxlog"
	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/events"
)

func newBinder(opts ...Option) *Binder {
	return NewBinder(append([]Option{WithRegistry(events.NewRegistry()), WithLogger(ctxlog.Discard())}, opts...)...)
}

func click(el *dom.Element) {
	el.DispatchEvent(dom.NewCustomEvent("click", nil, true, true, true))
}

func TestBinderCreateIdempotent(t *testing.T) {
	d := parse(t, `<body><button id="b" data-toggle="on"></button></body>`)
	el := d.ElementByID("b")
	b := newBinder()

	first := b.Create(el)
	second := b.Create(el)
	if first != second {
		t.Error("Create() returned a second interpreter")
	}
	if n := el.ListenerCount("click"); n != 1 {
		t.Errorf("ListenerCount() = %d, want 1", n)
	}
	if b.Attach(el, "") {
		t.Error("Attach() on attached element = true")
	}

	click(el)
	if err := b.Wait(); err != nil {
		t.Fatal(err)
	}
	if !el.ClassList().Contains("on") {
		t.Error("single click did not toggle exactly once")
	}
}

func TestBinderProcessSharesInterpreter(t *testing.T) {
	d := parse(t, `<body><p id="p" data-toggle="x"></p></body>`)
	el := d.ElementByID("p")
	b := newBinder()

	b.Process(context.Background(), el, nil)
	in, ok := b.Interpreter(el)
	if !ok {
		t.Fatal("Process() did not record an interpreter")
	}
	b.Process(context.Background(), el, nil)
	if in2, _ := b.Interpreter(el); in2 != in {
		t.Error("second Process() created a new interpreter")
	}
	if b.Attached(el) {
		t.Error("Process() attached a listener")
	}
	if el.ClassList().Contains("x") {
		t.Error("two runs should cancel out")
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBinderDetach(t *testing.T) {
	d := parse(t, `<body><p id="p" data-toggle="x"></p></body>`)
	el := d.ElementByID("p")
	b := newBinder()
	b.Create(el)

	if !b.Detach(el) {
		t.Fatal("Detach() = false")
	}
	if b.Detach(el) {
		t.Error("second Detach() = true")
	}
	click(el)
	if el.ClassList().Contains("x") {
		t.Error("detached element still runs")
	}
	if _, ok := b.Interpreter(el); !ok {
		t.Error("Detach() dropped the interpreter")
	}
	if !b.Attach(el, "") || el.ListenerCount("click") != 1 {
		t.Error("re-Attach() failed")
	}
}

func TestBinderScanAndObserve(t *testing.T) {
	src := `<body><div id="a" data-action="x"></div><p id="plain"></p>
<x-card id="c"><template shadowrootmode="open"><b id="deep" data-toggle="t"></b></template></x-card></body>`
	d := parse(t, src)
	b := newBinder()
	if n := b.Scan(d); n != 2 {
		t.Errorf("Scan() = %d, want 2", n)
	}
	deep, _ := d.Query("#deep", true)
	if !b.Attached(deep) {
		t.Error("shadow element not bound")
	}

	stop := b.Observe(d)
	defer stop()

	f, err := d.ParseFragment(`<span id="late" data-toggle="y"><i id="nested" data-toggle="z"></i></span>`)
	if err != nil {
		t.Fatal(err)
	}
	d.Body().Append(f)
	late, nested := d.ElementByID("late"), d.ElementByID("nested")
	if !b.Attached(late) || !b.Attached(nested) {
		t.Error("connected elements not bound")
	}
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}

	late.Remove()
	if b.Len() != 2 {
		t.Errorf("Len() after remove = %d, want 2", b.Len())
	}
	if late.ListenerCount("click") != 0 || nested.ListenerCount("click") != 0 {
		t.Error("listeners survive disconnect")
	}

	d.ElementByID("c").Remove()
	if b.Len() != 1 {
		t.Errorf("Len() after removing host = %d, want 1", b.Len())
	}
}

func TestBinderIsBindable(t *testing.T) {
	d := parse(t, `<body><p id="a" data-call="f"></p><p id="b" data-other="1"></p><p id="c" hx-toggle="t"></p></body>`)
	b := newBinder()
	tests := []struct {
		id   string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", false},
	}
	for _, tt := range tests {
		if got := b.IsBindable(d.ElementByID(tt.id)); got != tt.want {
			t.Errorf("IsBindable(#%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
	if b.IsBindable(nil) {
		t.Error("IsBindable(nil) = true")
	}
	if !newBinder(WithPrefix("hx-")).IsBindable(d.ElementByID("c")) {
		t.Error("custom prefix not honoured")
	}
}

func TestBinderClone(t *testing.T) {
	d := parse(t, `<body><p id="from" data-toggle="a" data-action="go" title="x"></p><p id="to" data-action="stay"></p></body>`)
	b := newBinder()
	from, to := d.ElementByID("from"), d.ElementByID("to")

	if n := b.Clone(from, to, false); n != 1 {
		t.Errorf("Clone() = %d, want 1", n)
	}
	got := map[string]string{}
	for _, name := range to.AttrNames() {
		got[name], _ = to.Attr(name)
	}
	want := map[string]string{"id": "to", "data-action": "stay", "data-toggle": "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	if n := b.Clone(from, to, true); n != 2 {
		t.Errorf("Clone(override) = %d, want 2", n)
	}
	if v, _ := to.Attr("data-action"); v != "go" {
		t.Errorf("data-action = %q, want go", v)
	}
}

func TestBinderSyncsFormValues(t *testing.T) {
	src := `<body><div id="out"></div>
<input id="name" name="user" value="bob" data-target="#out" data-action="typed">
<form id="f" data-target="#out"><input name="age" type="number" value="41"><input name="ok" type="checkbox" checked></form></body>`
	d := parse(t, src)
	b := newBinder()
	b.Scan(d)

	click(d.ElementByID("name"))
	out := d.ElementByID("out")
	if v, _ := out.Prop("user"); v != "bob" {
		t.Errorf("user = %v, want bob", v)
	}

	// a click on the form itself syncs every named field
	click(d.ElementByID("f"))
	if v, _ := out.Prop("age"); v != 41.0 {
		t.Errorf("age = %v, want 41", v)
	}
	if v, _ := out.Prop("ok"); v != true {
		t.Errorf("ok = %v, want true", v)
	}
	if err := b.Wait(); err != nil {
		t.Error(err)
	}
}

func TestBinderContextLogger(t *testing.T) {
	d := parse(t, `<body><p id="p" data-template="#missing"></p></body>`)
	b := newBinder()
	log, buf := capture()
	b.SetContext(ContextWithLogger(context.Background(), log))
	b.Create(d.ElementByID("p"))
	click(d.ElementByID("p"))
	if buf.Len() == 0 {
		t.Error("run did not log through the context logger")
	}
}
