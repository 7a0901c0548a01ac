package dom

import "strings"

// Style returns the inline style declaration for property name.
func (e *Element) Style(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	v, _ := e.Attr("style")
	for _, decl := range parseStyle(v) {
		if decl[0] == name {
			return decl[1]
		}
	}
	return ""
}

// SetStyle sets an inline style declaration. An empty value removes it.
func (e *Element) SetStyle(name, value string) {
	name = strings.ToLower(strings.TrimSpace(name))
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := attr(e.node, "style")
	decls := parseStyle(v)
	found := false
	out := decls[:0]
	for _, decl := range decls {
		if decl[0] == name {
			found = true
			if value == "" {
				continue
			}
			decl[1] = value
		}
		out = append(out, decl)
	}
	if !found && value != "" {
		out = append(out, [2]string{name, value})
	}
	if len(out) == 0 {
		removeAttr(e.node, "style")
		return
	}
	parts := make([]string, len(out))
	for i, decl := range out {
		parts[i] = decl[0] + ": " + decl[1]
	}
	setAttr(e.node, "style", strings.Join(parts, "; "))
}

// StyleNames returns the inline style property names in declaration order.
func (e *Element) StyleNames() []string {
	v, _ := e.Attr("style")
	decls := parseStyle(v)
	names := make([]string, len(decls))
	for i, decl := range decls {
		names[i] = decl[0]
	}
	return names
}

func parseStyle(s string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" {
			continue
		}
		out = append(out, [2]string{k, v})
	}
	return out
}
