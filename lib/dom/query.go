package dom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

func compile(selector string) (cascadia.Matcher, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadSelector, selector, err)
	}
	return sel, nil
}

// QueryAll returns the elements of the document matching selector in
// document order. With crossShadow, shadow trees are searched too, each
// right after its host.
func (d *Document) QueryAll(selector string, crossShadow bool) ([]*Element, error) {
	return d.queryAll(d.root, selector, crossShadow, 0)
}

// Query returns the first match of QueryAll, or nil.
func (d *Document) Query(selector string, crossShadow bool) (*Element, error) {
	els, err := d.queryAll(d.root, selector, crossShadow, 1)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// QueryAll returns the descendants of e matching selector. With
// crossShadow, e's own shadow tree is searched before its light children.
func (e *Element) QueryAll(selector string, crossShadow bool) ([]*Element, error) {
	return e.doc.queryAll(e.node, selector, crossShadow, 0)
}

// Query returns the first match of QueryAll, or nil.
func (e *Element) Query(selector string, crossShadow bool) (*Element, error) {
	els, err := e.doc.queryAll(e.node, selector, crossShadow, 1)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// Matches reports whether e matches selector.
func (e *Element) Matches(selector string) (bool, error) {
	m, err := compile(selector)
	if err != nil {
		return false, err
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return m.Match(e.node), nil
}

func (d *Document) queryAll(root *html.Node, selector string, crossShadow bool, limit int) ([]*Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Element
	visit := func(n *html.Node) bool {
		if m.Match(n) {
			out = append(out, d.wrap(n))
			if limit > 0 && len(out) >= limit {
				return false
			}
		}
		return true
	}
	if crossShadow && root.Type == html.ElementNode {
		if el := d.lookup(root); el != nil && el.shadow != nil {
			if !d.walk(el.shadow, true, visit) {
				return out, nil
			}
		}
	}
	d.walk(root, crossShadow, visit)
	return out, nil
}
