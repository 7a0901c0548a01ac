package dom

import (
	"strconv"
	"strings"
)

// IsForm reports whether el is a <form>.
func IsForm(el *Element) bool {
	return el != nil && el.Tag() == "form"
}

// IsFormField reports whether el is a named input, select or textarea.
func IsFormField(el *Element) bool {
	if el == nil {
		return false
	}
	switch el.Tag() {
	case "input", "select", "textarea":
		return el.HasAttr("name")
	}
	return false
}

// FieldValue returns the field's name and current value. Checkboxes yield a
// bool, number and range inputs a float64 when parseable, everything else
// a string. Unchecked radio buttons and unnamed fields report ok == false.
func FieldValue(el *Element) (name string, value any, ok bool) {
	if !IsFormField(el) {
		return "", nil, false
	}
	name, _ = el.Attr("name")
	switch el.Tag() {
	case "textarea":
		if v, ok := el.Prop("value"); ok {
			return name, v, true
		}
		return name, el.TextContent(), true
	case "select":
		return name, selectValue(el), true
	}
	typ, _ := el.Attr("type")
	switch strings.ToLower(typ) {
	case "checkbox":
		return name, checked(el), true
	case "radio":
		if !checked(el) {
			return name, nil, false
		}
		return name, inputValue(el), true
	case "number", "range":
		s := inputValue(el)
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return name, f, true
		}
		return name, s, true
	}
	return name, inputValue(el), true
}

// FormValues collects the values of every field inside form.
func FormValues(form *Element) map[string]any {
	values := make(map[string]any)
	fields, err := form.QueryAll("input, select, textarea", false)
	if err != nil {
		return values
	}
	for _, f := range fields {
		if name, v, ok := FieldValue(f); ok {
			values[name] = v
		}
	}
	return values
}

func checked(el *Element) bool {
	if v, ok := el.Prop("checked"); ok {
		b, _ := v.(bool)
		return b
	}
	return el.HasAttr("checked")
}

func inputValue(el *Element) string {
	if v, ok := el.Prop("value"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	v, _ := el.Attr("value")
	return v
}

func selectValue(el *Element) any {
	if v, ok := el.Prop("value"); ok {
		return v
	}
	opts, err := el.QueryAll("option", false)
	if err != nil || len(opts) == 0 {
		return ""
	}
	chosen := opts[0]
	for _, o := range opts {
		if o.HasAttr("selected") {
			chosen = o
			break
		}
	}
	if v, ok := chosen.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(chosen.TextContent())
}
