package hxbind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm/hxbind/lib/dom"
)

const targetPage = `<body>
<my-app id="app">
  <section id="sec">
    <button id="btn"></button>
    <x-card id="card">
      <template shadowrootmode="open">
        <p id="deep" class="item"></p>
        <hx-list id="list"><span id="tpl-item" class="item"></span></hx-list>
      </template>
    </x-card>
    <span id="light" class="item"></span>
  </section>
</my-app>
<div id="orphan-host"></div>
</body>`

func ids(els []*dom.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		if el == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = el.ID()
	}
	return out
}

func parse(t *testing.T, src string) *dom.Document {
	t.Helper()
	d, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return d
}

func TestResolve(t *testing.T) {
	d := parse(t, targetPage)
	btn := d.ElementByID("btn")
	deep, _ := d.Query("#deep", true)
	r := Resolver{}

	tests := []struct {
		name string
		host *dom.Element
		spec string
		want []string
	}{
		{"empty", btn, "", []string{"btn"}},
		{"self", btn, "self", []string{"btn"}},
		{"this", btn, " this ", []string{"btn"}},
		{"parent", btn, "parent", []string{"sec"}},
		{"owner", btn, "owner", []string{"app"}},
		{"owner across shadow", deep, "owner", []string{"card"}},
		{"selector across shadow, list tag skipped", btn, ".item", []string{"deep", "light"}},
		{"selector no match falls back", btn, ".missing", []string{"btn"}},
		{"list tag only falls back", btn, "hx-list", []string{"btn"}},
		{"id selector", btn, "#card", []string{"card"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.host, tt.spec)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.spec, diff)
			}
		})
	}
}

func TestResolveNoTargets(t *testing.T) {
	d := parse(t, targetPage)
	r := Resolver{}

	app := d.ElementByID("app")
	if got, _ := r.Resolve(app, "owner"); len(got) != 0 {
		t.Errorf("Resolve(owner) = %v, want none", ids(got))
	}
	detached := d.CreateElement("div")
	if got, _ := r.Resolve(detached, "parent"); len(got) != 0 {
		t.Errorf("Resolve(parent) = %v, want none", ids(got))
	}
}

func TestResolveSelfAlwaysHost(t *testing.T) {
	d := parse(t, targetPage)
	r := Resolver{}
	d.Walk(true, func(el *dom.Element) bool {
		got, err := r.Resolve(el, "self")
		if err != nil || len(got) != 1 || got[0] != el {
			t.Errorf("Resolve(%s, self) = %v, %v", el.Tag(), ids(got), err)
		}
		return true
	})
}

func TestResolveBadSelector(t *testing.T) {
	d := parse(t, targetPage)
	btn := d.ElementByID("btn")
	got, err := Resolver{}.Resolve(btn, "div[")
	if !errors.Is(err, ErrBadSelector) {
		t.Errorf("Resolve() error = %v, want ErrBadSelector", err)
	}
	if len(got) != 1 || got[0] != btn {
		t.Errorf("Resolve() = %v, want [btn]", ids(got))
	}
}

func TestResolveCustomListTag(t *testing.T) {
	d := parse(t, `<ul><x-rows><li id="a" class="r"></li></x-rows><li id="b" class="r"></li></ul><i id="h"></i>`)
	got, _ := Resolver{ListTag: "x-rows"}.Resolve(d.ElementByID("h"), ".r")
	if diff := cmp.Diff([]string{"b"}, ids(got)); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}
