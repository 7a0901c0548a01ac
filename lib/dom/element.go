package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document.
//
// Besides attributes, an element carries runtime properties: arbitrary Go
// values keyed by name, the equivalent of expando fields on a browser
// element object.
type Element struct {
	doc  *Document
	node *html.Node

	props     map[string]any
	listeners map[string][]*Listener
	shadow    *html.Node
}

// Document returns the owner document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.node, strings.ToLower(name))
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets the named attribute.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, strings.ToLower(name), value)
}

// RemoveAttr removes the named attribute and reports whether it existed.
func (e *Element) RemoveAttr(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return removeAttr(e.node, strings.ToLower(name))
}

// AttrNames returns attribute names in source order.
func (e *Element) AttrNames() []string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	names := make([]string, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		if a.Namespace == "" {
			names = append(names, a.Key)
		}
	}
	return names
}

// Prop returns the named runtime property.
func (e *Element) Prop(name string) (any, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	v, ok := e.props[name]
	return v, ok
}

// SetProp sets the named runtime property.
func (e *Element) SetProp(name string, v any) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = v
}

// DeleteProp removes the named runtime property.
func (e *Element) DeleteProp(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	delete(e.props, name)
}

// PropNames returns the property names in sorted order.
func (e *Element) PropNames() []string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	names := make([]string, 0, len(e.props))
	for k := range e.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ClassList returns a view over the class attribute.
func (e *Element) ClassList() ClassList { return ClassList{el: e} }

// ParentElement returns the parent element. It is nil for the document
// element, detached elements and the top level of a shadow tree.
func (e *Element) ParentElement() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Host returns the host of the shadow tree e lives in, or nil when e is in
// the light tree.
func (e *Element) Host() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	for n := e.node.Parent; n != nil; n = n.Parent {
		if host, ok := e.doc.hosts[n]; ok {
			return host
		}
	}
	return nil
}

// Owner returns the nearest ancestor custom element (a tag containing a
// dash), crossing shadow boundaries, or nil.
func (e *Element) Owner() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	n := e.node.Parent
	for n != nil {
		if host, ok := e.doc.hosts[n]; ok {
			n = host.node
		}
		if n.Type == html.ElementNode && strings.Contains(n.Data, "-") {
			return e.doc.wrap(n)
		}
		n = n.Parent
	}
	return nil
}

// Children returns the element children of the light tree.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.childElements(e.node)
}

func (d *Document) childElements(n *html.Node) []*Element {
	var out []*Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, d.wrap(c))
		}
	}
	return out
}

// IsConnected reports whether e is attached to its document.
func (e *Element) IsConnected() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.connected(e.node)
}

// InnerHTML serialises the light children.
func (e *Element) InnerHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return renderChildren(e.node)
}

// OuterHTML serialises the element and its light children.
func (e *Element) OuterHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return ""
	}
	return sb.String()
}

// TextContent returns the concatenated text of the light subtree.
func (e *Element) TextContent() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			collect(c)
		}
	}
	collect(e.node)
	return sb.String()
}

// SetTextContent replaces the children with a single text node.
func (e *Element) SetTextContent(text string) {
	f := &Fragment{doc: e.doc, nodes: []*html.Node{{Type: html.TextNode, Data: text}}}
	e.ReplaceChildren(f)
}

// SetInnerHTML parses src and replaces the children with it.
func (e *Element) SetInnerHTML(src string) error {
	f, err := e.doc.ParseFragment(src)
	if err != nil {
		return err
	}
	e.ReplaceChildren(f)
	return nil
}

// Clear removes every light child.
func (e *Element) Clear() {
	e.ReplaceChildren(nil)
}

// ReplaceChildren removes the light children and appends the fragment.
// The fragment is emptied.
func (e *Element) ReplaceChildren(f *Fragment) {
	d := e.doc
	d.mu.Lock()
	var removed []*Element
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		removed = append(removed, d.detach(c)...)
		c = next
	}
	added := d.insert(e.node, nil, f)
	d.mu.Unlock()
	d.notify(added, removed)
}

// Append adds the fragment after the last light child.
func (e *Element) Append(f *Fragment) {
	d := e.doc
	d.mu.Lock()
	added := d.insert(e.node, nil, f)
	d.mu.Unlock()
	d.notify(added, nil)
}

// InsertAdjacent inserts the fragment relative to e. BeforeBegin and
// AfterEnd need a parent and fail with ErrNoParent otherwise.
func (e *Element) InsertAdjacent(pos Position, f *Fragment) error {
	d := e.doc
	d.mu.Lock()
	var added []*Element
	switch pos {
	case BeforeBegin:
		if e.node.Parent == nil {
			d.mu.Unlock()
			return ErrNoParent
		}
		added = d.insert(e.node.Parent, e.node, f)
	case AfterBegin:
		added = d.insert(e.node, e.node.FirstChild, f)
	case BeforeEnd:
		added = d.insert(e.node, nil, f)
	case AfterEnd:
		if e.node.Parent == nil {
			d.mu.Unlock()
			return ErrNoParent
		}
		added = d.insert(e.node.Parent, e.node.NextSibling, f)
	default:
		d.mu.Unlock()
		return ErrBadPosition
	}
	d.mu.Unlock()
	d.notify(added, nil)
	return nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	d := e.doc
	d.mu.Lock()
	removed := d.detach(e.node)
	d.mu.Unlock()
	d.notify(nil, removed)
}

// AttachShadow attaches an empty open shadow root.
func (e *Element) AttachShadow() (*ShadowRoot, error) {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if e.shadow != nil {
		return nil, ErrShadowExists
	}
	e.shadow = &html.Node{Type: html.DocumentNode}
	d.hosts[e.shadow] = e
	return &ShadowRoot{host: e}, nil
}

// ShadowRoot returns the attached shadow root, or nil.
func (e *Element) ShadowRoot() *ShadowRoot {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	if e.shadow == nil {
		return nil
	}
	return &ShadowRoot{host: e}
}

// ShadowRoot is the root of an element's shadow tree.
type ShadowRoot struct {
	host *Element
}

// Host returns the element the shadow root is attached to.
func (s *ShadowRoot) Host() *Element { return s.host }

// Children returns the top-level elements of the shadow tree.
func (s *ShadowRoot) Children() []*Element {
	d := s.host.doc
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.childElements(s.host.shadow)
}

// InnerHTML serialises the shadow tree.
func (s *ShadowRoot) InnerHTML() string {
	d := s.host.doc
	d.mu.RLock()
	defer d.mu.RUnlock()
	return renderChildren(s.host.shadow)
}

// Append adds the fragment to the end of the shadow tree.
func (s *ShadowRoot) Append(f *Fragment) {
	d := s.host.doc
	d.mu.Lock()
	added := d.insert(s.host.shadow, nil, f)
	d.mu.Unlock()
	d.notify(added, nil)
}

// SetInnerHTML replaces the shadow tree with parsed src.
func (s *ShadowRoot) SetInnerHTML(src string) error {
	d := s.host.doc
	f, err := d.ParseFragment(src)
	if err != nil {
		return err
	}
	d.mu.Lock()
	var removed []*Element
	for c := s.host.shadow.FirstChild; c != nil; {
		next := c.NextSibling
		removed = append(removed, d.detach(c)...)
		c = next
	}
	added := d.insert(s.host.shadow, nil, f)
	d.mu.Unlock()
	d.notify(added, removed)
	return nil
}

func renderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}
