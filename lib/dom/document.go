// Package dom is a small in-memory element tree layered over
// golang.org/x/net/html nodes.
//
// It adds what the HTML parser tree lacks for interactive use: open shadow
// roots, per-element runtime properties, event listeners with target and
// bubbling phases, CSS selector queries that can cross shadow boundaries,
// and connect/disconnect notifications for observers.
//
// Every Document guards its tree with a single RWMutex. Listener callbacks
// and observers always run with the lock released, so they may freely call
// back into the tree.
package dom

import (
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for tree operations.
var (
	ErrNoParent     = errors.New("dom: element has no parent")
	ErrBadPosition  = errors.New("dom: invalid insert position")
	ErrBadSelector  = errors.New("dom: invalid selector")
	ErrShadowExists = errors.New("dom: shadow root already attached")
)

// Observer is notified when elements enter or leave the connected tree.
// Shadow tree contents count as connected when their host is.
type Observer interface {
	Connected(el *Element)
	Disconnected(el *Element)
}

// Document owns an element tree and the side tables that decorate it.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	hosts     map[*html.Node]*Element // shadow root node -> host
	observers map[int]Observer
	nextObs   int

	wrapMu sync.Mutex
	elems  map[*html.Node]*Element
}

// NewDocument returns an empty HTML document with head and body.
func NewDocument() *Document {
	d, err := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	if err != nil {
		panic("dom: parse empty document: " + err.Error())
	}
	return d
}

// Parse parses a full HTML document. Declarative shadow roots
// (<template shadowrootmode="open">) are attached to their parent element.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{
		root:      root,
		hosts:     make(map[*html.Node]*Element),
		observers: make(map[int]Observer),
		elems:     make(map[*html.Node]*Element),
	}
	d.adoptShadows(root)
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.firstByTag("body")
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	return d.firstByTag("head")
}

func (d *Document) firstByTag(tag string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found *Element
	d.walk(d.root, false, func(n *html.Node) bool {
		if n.Data == tag {
			found = d.wrap(n)
			return false
		}
		return true
	})
	return found
}

// ElementByID returns the first element of the light tree whose id matches.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found *Element
	d.walk(d.root, false, func(n *html.Node) bool {
		if v, ok := attr(n, "id"); ok && v == id {
			found = d.wrap(n)
			return false
		}
		return true
	})
	return found
}

// CreateElement returns a new detached element.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.wrap(n)
}

// ParseFragment parses src in a body context into a detached fragment.
func (d *Document) ParseFragment(src string) (*Fragment, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	for _, n := range nodes {
		d.adoptShadows(n)
	}
	d.mu.Unlock()
	return &Fragment{doc: d, nodes: nodes}, nil
}

// Walk visits every element in document order. With crossShadow, an
// element's shadow tree is visited right after the element and before its
// light children. Returning false from fn stops the walk.
func (d *Document) Walk(crossShadow bool, fn func(*Element) bool) {
	d.mu.RLock()
	var els []*Element
	d.walk(d.root, crossShadow, func(n *html.Node) bool {
		els = append(els, d.wrap(n))
		return true
	})
	d.mu.RUnlock()
	for _, el := range els {
		if !fn(el) {
			return
		}
	}
}

// Observe registers o for connect/disconnect notifications and returns a
// function that removes it.
func (d *Document) Observe(o Observer) func() {
	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = o
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

// Render writes the document as HTML. Shadow roots are serialised as
// declarative shadow DOM templates.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	tree := d.renderTree(d.root)
	d.mu.RUnlock()
	return html.Render(w, tree)
}

// HTML returns the rendered document.
func (d *Document) HTML() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

// wrap returns the Element for n, creating it on first use.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	d.wrapMu.Lock()
	defer d.wrapMu.Unlock()
	if el, ok := d.elems[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elems[n] = el
	return el
}

// lookup returns the existing Element for n without creating one.
func (d *Document) lookup(n *html.Node) *Element {
	d.wrapMu.Lock()
	defer d.wrapMu.Unlock()
	return d.elems[n]
}

func (d *Document) release(n *html.Node) {
	d.wrapMu.Lock()
	defer d.wrapMu.Unlock()
	delete(d.elems, n)
}

// walk visits element descendants of n. Callers hold d.mu.
func (d *Document) walk(n *html.Node, crossShadow bool, fn func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if !fn(c) {
				return false
			}
			if crossShadow {
				if el := d.lookup(c); el != nil && el.shadow != nil {
					if !d.walk(el.shadow, crossShadow, fn) {
						return false
					}
				}
			}
		}
		if !d.walk(c, crossShadow, fn) {
			return false
		}
	}
	return true
}

// connected reports whether n is attached to the document root, following
// shadow roots to their hosts. Callers hold d.mu.
func (d *Document) connected(n *html.Node) bool {
	for n != nil {
		if n == d.root {
			return true
		}
		if host, ok := d.hosts[n]; ok {
			n = host.node
			continue
		}
		n = n.Parent
	}
	return false
}

// subtree returns n and its element descendants including shadow trees.
// With create false only already wrapped elements are returned.
func (d *Document) subtree(n *html.Node, create bool) []*Element {
	var out []*Element
	visit := func(c *html.Node) {
		var el *Element
		if create {
			el = d.wrap(c)
		} else {
			el = d.lookup(c)
		}
		if el != nil {
			out = append(out, el)
		}
	}
	if n.Type == html.ElementNode {
		visit(n)
		if el := d.lookup(n); el != nil && el.shadow != nil {
			d.walk(el.shadow, true, func(c *html.Node) bool { visit(c); return true })
		}
	}
	d.walk(n, true, func(c *html.Node) bool { visit(c); return true })
	return out
}

// insert places the fragment nodes under parent before ref and returns the
// elements that became connected. Callers hold d.mu for writing.
func (d *Document) insert(parent, ref *html.Node, f *Fragment) []*Element {
	if f == nil {
		return nil
	}
	live := d.connected(parent)
	var added []*Element
	for _, n := range f.nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.InsertBefore(n, ref)
		if live {
			added = append(added, d.subtree(n, true)...)
		}
	}
	f.nodes = nil
	return added
}

// detach removes n from its parent and returns the elements that left the
// connected tree. Callers hold d.mu for writing.
func (d *Document) detach(n *html.Node) []*Element {
	if n.Parent == nil {
		return nil
	}
	live := d.connected(n)
	gone := d.subtree(n, false)
	n.Parent.RemoveChild(n)
	for _, el := range gone {
		if el.shadow != nil {
			delete(d.hosts, el.shadow)
		}
		d.release(el.node)
	}
	if !live {
		return nil
	}
	return gone
}

func (d *Document) notify(added, removed []*Element) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	d.mu.RLock()
	obs := make([]Observer, 0, len(d.observers))
	for _, o := range d.observers {
		obs = append(obs, o)
	}
	d.mu.RUnlock()
	for _, o := range obs {
		for _, el := range removed {
			o.Disconnected(el)
		}
		for _, el := range added {
			o.Connected(el)
		}
	}
}

// adoptShadows turns declarative shadow templates under n into shadow roots.
// Callers hold d.mu for writing (or own n exclusively).
func (d *Document) adoptShadows(n *html.Node) {
	var templates []*html.Node
	var find func(*html.Node)
	find = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == "template" {
			if mode, ok := attr(c, "shadowrootmode"); ok && (mode == "open" || mode == "closed") {
				templates = append(templates, c)
			}
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			find(k)
		}
	}
	find(n)
	for _, t := range templates {
		host := t.Parent
		if host == nil || host.Type != html.ElementNode {
			continue
		}
		el := d.wrap(host)
		if el.shadow != nil {
			continue
		}
		root := &html.Node{Type: html.DocumentNode}
		host.RemoveChild(t)
		for c := t.FirstChild; c != nil; {
			next := c.NextSibling
			t.RemoveChild(c)
			root.AppendChild(c)
			c = next
		}
		el.shadow = root
		d.hosts[root] = el
	}
}

// renderTree copies n for serialisation, emitting shadow roots as
// declarative templates. Callers hold d.mu.
func (d *Document) renderTree(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	if n.Type == html.ElementNode {
		if el := d.lookup(n); el != nil && el.shadow != nil {
			t := &html.Node{
				Type:     html.ElementNode,
				Data:     "template",
				DataAtom: atom.Template,
				Attr:     []html.Attribute{{Key: "shadowrootmode", Val: "open"}},
			}
			for k := el.shadow.FirstChild; k != nil; k = k.NextSibling {
				t.AppendChild(d.renderTree(k))
			}
			c.AppendChild(t)
		}
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(d.renderTree(k))
	}
	return c
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) bool {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}
