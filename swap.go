package hxbind

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// IncludeTag is the loader element created for path-like swap and inject
// values. Its src attribute holds the path; its content is filled once the
// template loader returns.
const IncludeTag = "hx-include"

// insertMode says what happens to the target when no anchor is declared.
type insertMode int

const (
	// modeReplace replaces the target's content.
	modeReplace insertMode = iota
	// modeAppend adds after the target's existing content.
	modeAppend
)

func (in *Interpreter) swapContent(rc *runContext, target *dom.Element) error {
	value, ok := in.proxy.Swap()
	if !ok {
		return nil
	}
	frag, include, err := in.content(target.Document(), value)
	if err != nil {
		return err
	}
	target.Clear()
	if err := in.insert(rc, target, frag, modeReplace); err != nil {
		return err
	}
	in.fill(rc, "swap", include)
	return nil
}

func (in *Interpreter) injectContent(rc *runContext, target *dom.Element) error {
	value, ok := in.proxy.Inject()
	if !ok {
		return nil
	}
	frag, include, err := in.content(target.Document(), value)
	if err != nil {
		return err
	}
	if err := in.insert(rc, target, frag, modeAppend); err != nil {
		return err
	}
	in.fill(rc, "inject", include)
	return nil
}

// applyTemplate clones a template into the target with the inject rule.
// "#id" names an element of the document, shadow trees included; any other
// value goes through the template loader asynchronously.
func (in *Interpreter) applyTemplate(rc *runContext, target *dom.Element) error {
	ref, ok := in.proxy.Template()
	if !ok || strings.TrimSpace(ref) == "" {
		return nil
	}
	ref = strings.TrimSpace(ref)
	doc := target.Document()

	if id, isID := strings.CutPrefix(ref, "#"); isID {
		tpl := elementByID(doc, id)
		if tpl == nil {
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
		}
		return in.insert(rc, target, dom.ContentOf(tpl), modeAppend)
	}

	rc.run.Go("template", func(ctx context.Context) error {
		t, err := in.opts.loader.Load(ctx, in.opts.cacheTemplates, ref, ref)
		if err != nil {
			return wrapLibError(err)
		}
		frag, err := t.Clone(doc)
		if err != nil {
			return err
		}
		return in.insert(rc, target, frag, modeAppend)
	})
	return nil
}

// content resolves a swap or inject value to a detached fragment. A bare
// tag name yields an empty element of that name; a path-like value (one
// containing '/') yields an include element whose content is loaded later.
// An empty value yields an empty fragment.
func (in *Interpreter) content(doc *dom.Document, value string) (frag *dom.Fragment, include *dom.Element, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		frag, err = doc.ParseFragment("")
		return frag, nil, err
	}
	if strings.Contains(value, "/") {
		frag, err = doc.ParseFragment(fmt.Sprintf(`<%s src="%s"></%s>`, IncludeTag, html.EscapeString(value), IncludeTag))
		if err != nil {
			return nil, nil, err
		}
		if els := frag.Elements(); len(els) == 1 {
			include = els[0]
		}
		return frag, include, nil
	}
	if !validTag(value) {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadContent, value)
	}
	frag, err = doc.ParseFragment(fmt.Sprintf("<%s></%s>", value, value))
	return frag, nil, err
}

// insert places frag relative to target. A valid anchor on the host wins;
// otherwise mode decides.
func (in *Interpreter) insert(rc *runContext, target *dom.Element, frag *dom.Fragment, mode insertMode) error {
	if anchor, ok := in.proxy.Anchor(); ok && strings.TrimSpace(anchor) != "" {
		if pos, ok := dom.ParsePosition(anchor); ok {
			return wrapLibError(target.InsertAdjacent(pos, frag))
		}
		rc.log.Warn("unknown anchor, using default insertion", "anchor", anchor)
	}
	if mode == modeReplace {
		target.ReplaceChildren(frag)
		return nil
	}
	target.Append(frag)
	return nil
}

// fill loads the include element's content through the template loader.
func (in *Interpreter) fill(rc *runContext, instruction string, include *dom.Element) {
	if include == nil {
		return
	}
	src, _ := include.Attr("src")
	doc := include.Document()
	rc.run.Go(instruction, func(ctx context.Context) error {
		t, err := in.opts.loader.Load(ctx, in.opts.cacheTemplates, src, src)
		if err != nil {
			return wrapLibError(err)
		}
		frag, err := t.Clone(doc)
		if err != nil {
			return err
		}
		include.ReplaceChildren(frag)
		return nil
	})
}

func validTag(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// elementByID finds id anywhere in doc, shadow trees included.
func elementByID(doc *dom.Document, id string) *dom.Element {
	if el := doc.ElementByID(id); el != nil {
		return el
	}
	var found *dom.Element
	doc.Walk(true, func(el *dom.Element) bool {
		if el.ID() == id {
			found = el
			return false
		}
		return true
	})
	return found
}
