package hxbind

import (
	"fmt"
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// Problem is a suspicious instruction found by Lint.
type Problem struct {
	Element     *dom.Element
	Instruction string
	Message     string
}

func (p Problem) String() string {
	name := p.Element.Tag()
	if id := p.Element.ID(); id != "" {
		name += "#" + id
	}
	return fmt.Sprintf("%s: %s: %s", name, p.Instruction, p.Message)
}

// Lint reports instructions in doc that would fail or silently fall back at
// run time: bad selectors, unknown anchors, malformed JSON, invalid content
// tags, missing templates and exec sources that do not compile.
func Lint(doc *dom.Document, opts ...Option) []Problem {
	o := newOptions(opts)
	b := &Binder{opts: o}

	var problems []Problem
	doc.Walk(true, func(el *dom.Element) bool {
		if !b.IsBindable(el) {
			return true
		}
		p := NewProxy(el, o.schema, o.prefix)
		report := func(instruction, format string, args ...any) {
			problems = append(problems, Problem{Element: el, Instruction: instruction, Message: fmt.Sprintf(format, args...)})
		}
		lintElement(doc, o, p, report)
		return true
	})
	return problems
}

func lintElement(doc *dom.Document, o *options, p *Proxy, report func(string, string, ...any)) {
	if spec, ok := p.Target(); ok {
		switch strings.TrimSpace(spec) {
		case "", TargetSelf, TargetThis, TargetOwner, TargetParent:
		default:
			found, err := doc.QueryAll(spec, true)
			switch {
			case err != nil:
				report("target", "invalid selector %q", spec)
			case len(found) == 0:
				report("target", "%q matches nothing, the host is used", spec)
			}
		}
	}

	if anchor, ok := p.Anchor(); ok && strings.TrimSpace(anchor) != "" {
		if _, valid := dom.ParsePosition(anchor); !valid {
			report("anchor", "unknown position %q", anchor)
		}
	}

	if v, ok := p.Raw("timeout"); ok && !isNumber(v) {
		report("timeout", "%q is not a number", v)
	}

	for _, name := range []string{"attribute", "property"} {
		raw, ok := p.Raw(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if LooksLikeJSON(raw) {
			v, valid := ParseJSON(raw)
			if !valid {
				report(name, "malformed JSON")
			} else if _, isObj := v.(map[string]any); !isObj {
				report(name, "JSON value must be an object")
			}
			continue
		}
		if len(ParsePairs(raw)) == 0 {
			report(name, "no key=value pairs in %q", raw)
		}
	}

	for _, name := range []string{"swap", "inject"} {
		v, ok := p.Raw(name)
		v = strings.TrimSpace(v)
		if !ok || v == "" || strings.Contains(v, "/") {
			continue
		}
		if !validTag(v) {
			report(name, "%q is neither a tag name nor a path", v)
		}
	}

	if ref, ok := p.Template(); ok {
		if id, isID := strings.CutPrefix(strings.TrimSpace(ref), "#"); isID && elementByID(doc, id) == nil {
			report("template", "no element with id %q", id)
		}
	}

	if src, ok := p.Exec(); ok && strings.TrimSpace(src) != "" {
		if c, ok := o.scripter.(interface{ Compile(string) error }); ok {
			if err := c.Compile(src); err != nil {
				report("exec", "%v", err)
			}
		}
	}
}
