package hxbind

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pthm/hxbind/lib/dom"
)

// setAttributes applies the attribute instruction. A JSON object is merged
// onto the target's attributes. Otherwise every key=value pair is written
// with the coercion rules of writeAttr, the value instruction overriding
// every right-hand side.
func (in *Interpreter) setAttributes(rc *runContext, target *dom.Element) error {
	raw, ok := in.proxy.Attribute()
	if !ok {
		return nil
	}
	if v, isJSON := ParseJSON(raw); isJSON {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("attribute: JSON value must be an object, got %T", v)
		}
		for _, k := range sortedKeys(m) {
			mergeAttr(target, k, m[k])
		}
		return nil
	}
	override, hasOverride := in.proxy.Value()
	for _, p := range ParsePairs(raw) {
		v := p.Value
		if hasOverride {
			v = override
		}
		writeAttr(target, p.Key, v)
	}
	return nil
}

// setProperties is setAttributes over element properties, coercing by the
// Go type of the current property value.
func (in *Interpreter) setProperties(rc *runContext, target *dom.Element) error {
	raw, ok := in.proxy.Property()
	if !ok {
		return nil
	}
	if v, isJSON := ParseJSON(raw); isJSON {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("property: JSON value must be an object, got %T", v)
		}
		for _, k := range sortedKeys(m) {
			target.SetProp(k, m[k])
		}
		return nil
	}
	override, hasOverride := in.proxy.Value()
	for _, p := range ParsePairs(raw) {
		v := p.Value
		if hasOverride {
			v = override
		}
		writeProp(target, p.Key, v)
	}
	return nil
}

// writeAttr writes v to the named attribute according to its current value:
//
//   - present and empty, or equal to its own name: a boolean attribute,
//     which is toggled off whatever v says
//   - "true" or "false": a boolean flag, which is flipped
//   - a number: v is parsed as a number and written back normalised;
//     a v that is not a number is written as is
//   - anything else, or absent: v is written as a string
func writeAttr(el *dom.Element, name, v string) {
	cur, present := el.Attr(name)
	switch {
	case present && (cur == "" || strings.EqualFold(cur, name)):
		el.RemoveAttr(name)
	case cur == "true" || cur == "false":
		el.SetAttr(name, strconv.FormatBool(cur != "true"))
	case present && isNumber(cur):
		if f, ok := parseNumber(v); ok {
			el.SetAttr(name, strconv.FormatFloat(f, 'f', -1, 64))
			return
		}
		el.SetAttr(name, v)
	default:
		el.SetAttr(name, v)
	}
}

// mergeAttr writes a decoded JSON value: true sets a boolean attribute,
// false and null remove the attribute, numbers and strings are written as
// text, objects and arrays as JSON.
func mergeAttr(el *dom.Element, name string, v any) {
	switch v := v.(type) {
	case nil:
		el.RemoveAttr(name)
	case bool:
		if v {
			el.SetAttr(name, "")
		} else {
			el.RemoveAttr(name)
		}
	case string:
		el.SetAttr(name, v)
	case float64:
		el.SetAttr(name, strconv.FormatFloat(v, 'f', -1, 64))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		el.SetAttr(name, string(data))
	}
}

// writeProp writes v to the named property according to the Go type of its
// current value: bool toggles, numbers parse v keeping their type,
// everything else stores the string.
func writeProp(el *dom.Element, name, v string) {
	cur, _ := el.Prop(name)
	switch c := cur.(type) {
	case bool:
		el.SetProp(name, !c)
		return
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		if f, ok := parseNumber(v); ok {
			el.SetProp(name, convertNumber(c, f))
			return
		}
	}
	el.SetProp(name, v)
}

func convertNumber(like any, f float64) any {
	switch like.(type) {
	case int:
		return int(f)
	case int8:
		return int8(f)
	case int16:
		return int16(f)
	case int32:
		return int32(f)
	case int64:
		return int64(f)
	case uint:
		return uint(f)
	case uint8:
		return uint8(f)
	case uint16:
		return uint16(f)
	case uint32:
		return uint32(f)
	case uint64:
		return uint64(f)
	case float32:
		return float32(f)
	}
	return f
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNumber(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
