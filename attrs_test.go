package hxbind

import (
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"
)

func TestAttrs(t *testing.T) {
	got := Attrs().
		Target("#list").
		Action("save").
		Toggle("open", "busy").
		Timeout(0.25).
		Swap("li").
		Anchor("afterbegin").
		Attribute(Pair{"aria-busy", "true"}, Pair{"tabindex", "1"}).
		Trigger("saved", "changed").
		Call("api.save").
		Build()

	want := templ.Attributes{
		"data-target":    "#list",
		"data-action":    "save",
		"data-toggle":    "open,busy",
		"data-timeout":   "0.25",
		"data-swap":      "li",
		"data-anchor":    "afterbegin",
		"data-attribute": "aria-busy=true;tabindex=1",
		"data-trigger":   "saved,changed",
		"data-call":      "api.save",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestAttrsWithPrefix(t *testing.T) {
	got := AttrsWithPrefix("hx-").Exec("this.hidden = true").Template("#row").Value("42").Build()
	want := templ.Attributes{
		"hx-exec":     "this.hidden = true",
		"hx-template": "#row",
		"hx-value":    "42",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestAttrsJSONRoundTrip(t *testing.T) {
	got := Attrs().PropertyJSON(map[string]any{"count": 2}).AttributeJSON(map[string]any{"hidden": true}).Build()
	for _, name := range []string{"data-property", "data-attribute"} {
		v, _ := got[name].(string)
		if !LooksLikeJSON(v) {
			t.Errorf("%s = %q, want JSON", name, v)
		}
	}
	if got["data-property"] != `{"count":2}` {
		t.Errorf("data-property = %v", got["data-property"])
	}
}

func TestAttrsBuildCopies(t *testing.T) {
	b := Attrs().Target("self")
	first := b.Build()
	b.Action("x")
	if _, ok := first["data-action"]; ok {
		t.Error("Build() result changed after further builder calls")
	}
}
