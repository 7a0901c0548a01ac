package hxbind

import (
	"math"
	"strconv"
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// DefaultPrefix namespaces marker attributes: the "toggle" instruction is
// read from data-toggle.
const DefaultPrefix = "data-"

// Proxy is a read-only typed view over one element's marker attributes.
// It keeps no state besides the element: every getter reads the current
// attribute value.
type Proxy struct {
	el     *dom.Element
	schema *Schema
	prefix string
}

// NewProxy creates a proxy for el. A nil schema uses Instructions.
func NewProxy(el *dom.Element, schema *Schema, prefix string) *Proxy {
	if schema == nil {
		schema = Instructions
	}
	return &Proxy{el: el, schema: schema, prefix: prefix}
}

// Element returns the element the proxy reads from.
func (p *Proxy) Element() *dom.Element { return p.el }

// AttributeName returns the full marker attribute name for an instruction,
// or "" when the instruction is unknown.
func (p *Proxy) AttributeName(name string) string {
	in, ok := p.schema.Lookup(name)
	if !ok {
		return ""
	}
	return p.prefix + in.Attribute
}

func (p *Proxy) raw(name string) (string, bool) {
	attr := p.AttributeName(name)
	if attr == "" || p.el == nil {
		return "", false
	}
	return p.el.Attr(attr)
}

// Has reports whether the instruction's attribute is present.
func (p *Proxy) Has(name string) bool {
	_, ok := p.raw(name)
	return ok
}

// Present reports whether any marker attribute is present.
func (p *Proxy) Present() bool {
	if p.el == nil {
		return false
	}
	for _, a := range p.schema.Attributes() {
		if p.el.HasAttr(p.prefix + a) {
			return true
		}
	}
	return false
}

// Raw returns the attribute value as written.
func (p *Proxy) Raw(name string) (string, bool) {
	return p.raw(name)
}

// Number parses the attribute as a number. Absent or invalid values yield 0.
func (p *Proxy) Number(name string) float64 {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// List splits the attribute on ',' and ';'.
func (p *Proxy) List(name string) []string {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	return SplitList(v)
}

// Pairs parses the attribute as a key=value list. It returns nil when the
// value decodes as JSON; JSON values are read with JSON instead.
func (p *Proxy) Pairs(name string) []Pair {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	if _, isJSON := ParseJSON(v); isJSON {
		return nil
	}
	return ParsePairs(v)
}

// JSON decodes the attribute when it looks like JSON.
func (p *Proxy) JSON(name string) (any, bool) {
	v, ok := p.raw(name)
	if !ok {
		return nil, false
	}
	return ParseJSON(v)
}

// Decoded returns the decoded JSON value when the attribute looks like
// JSON, the raw string otherwise, and nil when the attribute is absent.
func (p *Proxy) Decoded(name string) any {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	if j, ok := ParseJSON(v); ok {
		return j
	}
	return v
}
