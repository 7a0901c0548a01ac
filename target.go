package hxbind

import (
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// DefaultListTag is the placeholder element used for declarative list
// templating. Selector targets never resolve to it or to its descendants.
const DefaultListTag = "hx-list"

// Symbolic target names.
const (
	TargetSelf   = "self"
	TargetThis   = "this"
	TargetOwner  = "owner"
	TargetParent = "parent"
)

// Resolver turns a target expression into destination elements.
type Resolver struct {
	ListTag string
}

// Resolve returns the targets for spec relative to host:
//
//	"", "self", "this"  host
//	"owner"             nearest ancestor custom element, crossing shadow roots
//	"parent"            host's parent element
//	anything else       every match of the selector in the document, shadow
//	                    trees included, in depth-first document order
//
// owner and parent yield no targets when there is no such element. A
// selector without matches, or an invalid one, falls back to host; the
// latter also returns an error wrapping ErrBadSelector.
func (r Resolver) Resolve(host *dom.Element, spec string) ([]*dom.Element, error) {
	switch strings.TrimSpace(spec) {
	case "", TargetSelf, TargetThis:
		return []*dom.Element{host}, nil
	case TargetOwner:
		if o := host.Owner(); o != nil {
			return []*dom.Element{o}, nil
		}
		return nil, nil
	case TargetParent:
		if p := host.ParentElement(); p != nil {
			return []*dom.Element{p}, nil
		}
		return nil, nil
	}

	found, err := host.Document().QueryAll(spec, true)
	if err != nil {
		return []*dom.Element{host}, wrapLibError(err)
	}
	listTag := r.ListTag
	if listTag == "" {
		listTag = DefaultListTag
	}
	out := found[:0]
	for _, el := range found {
		if !within(el, listTag) {
			out = append(out, el)
		}
	}
	if len(out) == 0 {
		return []*dom.Element{host}, nil
	}
	return out, nil
}

// within reports whether el is, or sits inside, an element named tag.
func within(el *dom.Element, tag string) bool {
	for el != nil {
		if el.Tag() == tag {
			return true
		}
		p := el.ParentElement()
		if p == nil {
			p = el.Host()
		}
		el = p
	}
	return false
}
