package hxbind

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// AttrBuilder builds marker attributes for templ components:
//
//	<button { hxbind.Attrs().Target("#list").Toggle("open").Timeout(0.2).Build()... }>
//
// Methods return the builder so calls chain. Build returns a fresh map.
type AttrBuilder struct {
	prefix string
	attrs  templ.Attributes
}

// Attrs returns a builder using DefaultPrefix.
func Attrs() *AttrBuilder {
	return AttrsWithPrefix(DefaultPrefix)
}

// AttrsWithPrefix returns a builder for a custom marker prefix.
func AttrsWithPrefix(prefix string) *AttrBuilder {
	return &AttrBuilder{prefix: prefix, attrs: templ.Attributes{}}
}

func (b *AttrBuilder) set(name, value string) *AttrBuilder {
	b.attrs[b.prefix+name] = value
	return b
}

// Target sets the target specification ("self", "parent", "owner",
// "host" or a selector).
func (b *AttrBuilder) Target(spec string) *AttrBuilder { return b.set("target", spec) }

// Action sets the name dispatched in the action event.
func (b *AttrBuilder) Action(name string) *AttrBuilder { return b.set("action", name) }

// Toggle sets the classes to toggle.
func (b *AttrBuilder) Toggle(classes ...string) *AttrBuilder {
	return b.set("toggle", strings.Join(classes, ","))
}

// Timeout sets the delay between timed toggle steps in seconds.
func (b *AttrBuilder) Timeout(seconds float64) *AttrBuilder {
	return b.set("timeout", strconv.FormatFloat(seconds, 'f', -1, 64))
}

// Swap sets the content that replaces the target's children.
func (b *AttrBuilder) Swap(content string) *AttrBuilder { return b.set("swap", content) }

// Inject sets the content appended to the target.
func (b *AttrBuilder) Inject(content string) *AttrBuilder { return b.set("inject", content) }

// Anchor sets the insert position for swap, inject and template.
func (b *AttrBuilder) Anchor(pos string) *AttrBuilder { return b.set("anchor", pos) }

// Attribute sets attribute pairs written to the targets.
func (b *AttrBuilder) Attribute(pairs ...Pair) *AttrBuilder {
	return b.set("attribute", joinPairs(pairs))
}

// AttributeJSON sets the attribute instruction to a JSON object.
func (b *AttrBuilder) AttributeJSON(v map[string]any) *AttrBuilder {
	return b.setJSON("attribute", v)
}

// Property sets property pairs written to the targets.
func (b *AttrBuilder) Property(pairs ...Pair) *AttrBuilder {
	return b.set("property", joinPairs(pairs))
}

// PropertyJSON sets the property instruction to a JSON object.
func (b *AttrBuilder) PropertyJSON(v map[string]any) *AttrBuilder {
	return b.setJSON("property", v)
}

// Trigger sets the events dispatched on the targets.
func (b *AttrBuilder) Trigger(events ...string) *AttrBuilder {
	return b.set("trigger", strings.Join(events, ","))
}

// Call sets the dotted paths of the functions to call.
func (b *AttrBuilder) Call(paths ...string) *AttrBuilder {
	return b.set("call", strings.Join(paths, ","))
}

// Exec sets script source run against each target.
func (b *AttrBuilder) Exec(src string) *AttrBuilder { return b.set("exec", src) }

// Template sets the template reference ("#id" or a loader reference).
func (b *AttrBuilder) Template(ref string) *AttrBuilder { return b.set("template", ref) }

// Value sets the value override.
func (b *AttrBuilder) Value(v string) *AttrBuilder { return b.set("value", v) }

// Build returns a copy of the accumulated attributes.
func (b *AttrBuilder) Build() templ.Attributes {
	out := make(templ.Attributes, len(b.attrs))
	for k, v := range b.attrs {
		out[k] = v
	}
	return out
}

func (b *AttrBuilder) setJSON(name string, v map[string]any) *AttrBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		return b
	}
	return b.set(name, string(data))
}

func joinPairs(pairs []Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, ";")
}
