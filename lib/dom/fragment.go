package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Position names where InsertAdjacent places content relative to an element.
type Position string

const (
	// BeforeBegin inserts before the element, as a previous sibling.
	BeforeBegin Position = "beforebegin"
	// AfterBegin inserts before the element's first child.
	AfterBegin Position = "afterbegin"
	// BeforeEnd inserts after the element's last child.
	BeforeEnd Position = "beforeend"
	// AfterEnd inserts after the element, as a next sibling.
	AfterEnd Position = "afterend"
)

// ParsePosition maps a case-insensitive position name to a Position.
func ParsePosition(s string) (Position, bool) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case BeforeBegin, AfterBegin, BeforeEnd, AfterEnd:
		return p, true
	}
	return "", false
}

// Fragment is a detached list of nodes waiting to be inserted. Inserting a
// fragment moves its nodes into the tree and leaves it empty.
type Fragment struct {
	doc   *Document
	nodes []*html.Node
}

// Len returns the number of top-level nodes.
func (f *Fragment) Len() int { return len(f.nodes) }

// Elements returns the top-level elements.
func (f *Fragment) Elements() []*Element {
	f.doc.mu.RLock()
	defer f.doc.mu.RUnlock()
	var out []*Element
	for _, n := range f.nodes {
		if n.Type == html.ElementNode {
			out = append(out, f.doc.wrap(n))
		}
	}
	return out
}

// Clone returns a deep copy of the fragment. Runtime properties, listeners
// and shadow roots are not copied.
func (f *Fragment) Clone() *Fragment {
	f.doc.mu.RLock()
	defer f.doc.mu.RUnlock()
	c := &Fragment{doc: f.doc, nodes: make([]*html.Node, 0, len(f.nodes))}
	for _, n := range f.nodes {
		c.nodes = append(c.nodes, cloneNode(n))
	}
	return c
}

// HTML serialises the fragment.
func (f *Fragment) HTML() string {
	f.doc.mu.RLock()
	defer f.doc.mu.RUnlock()
	var sb strings.Builder
	for _, n := range f.nodes {
		if err := html.Render(&sb, n); err != nil {
			break
		}
	}
	return sb.String()
}

// ContentOf returns a detached deep copy of el's light children, the way a
// <template> element's content is cloned.
func ContentOf(el *Element) *Fragment {
	d := el.doc
	d.mu.RLock()
	defer d.mu.RUnlock()
	f := &Fragment{doc: d}
	for c := el.node.FirstChild; c != nil; c = c.NextSibling {
		f.nodes = append(f.nodes, cloneNode(c))
	}
	return f
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(cloneNode(k))
	}
	return c
}
