package dom

import "strings"

// ClassList is a live view over an element's class attribute.
type ClassList struct {
	el *Element
}

// Values returns the classes in attribute order.
func (c ClassList) Values() []string {
	v, _ := c.el.Attr("class")
	return strings.Fields(v)
}

// Contains reports whether name is present.
func (c ClassList) Contains(name string) bool {
	for _, v := range c.Values() {
		if v == name {
			return true
		}
	}
	return false
}

// Add adds the names that are not present yet.
func (c ClassList) Add(names ...string) {
	c.update(func(list []string) []string {
		for _, n := range names {
			if n != "" && indexOf(list, n) < 0 {
				list = append(list, n)
			}
		}
		return list
	})
}

// Remove removes the given names.
func (c ClassList) Remove(names ...string) {
	c.update(func(list []string) []string {
		for _, n := range names {
			if i := indexOf(list, n); i >= 0 {
				list = append(list[:i], list[i+1:]...)
			}
		}
		return list
	})
}

// Toggle flips name and reports whether it is present afterwards.
func (c ClassList) Toggle(name string) bool {
	var on bool
	c.update(func(list []string) []string {
		if i := indexOf(list, name); i >= 0 {
			return append(list[:i], list[i+1:]...)
		}
		on = true
		return append(list, name)
	})
	return on
}

func (c ClassList) update(fn func([]string) []string) {
	d := c.el.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := attr(c.el.node, "class")
	list := fn(strings.Fields(v))
	if len(list) == 0 {
		removeAttr(c.el.node, "class")
		return
	}
	setAttr(c.el.node, "class", strings.Join(list, " "))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
