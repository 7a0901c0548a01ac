package script

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/pthm/hxbind/lib/dom"
)

// elementObject exposes a *dom.Element to script. Unknown keys read and
// write runtime properties.
type elementObject struct {
	e  *Engine
	el *dom.Element
}

func (e *Engine) wrapElement(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return e.vm.NewDynamicObject(&elementObject{e: e, el: el})
}

func (o *elementObject) fn(f func(call goja.FunctionCall) goja.Value) goja.Value {
	return o.e.vm.ToValue(f)
}

func (o *elementObject) Get(key string) goja.Value {
	vm := o.e.vm
	el := o.el
	switch key {
	case "id":
		return vm.ToValue(el.ID())
	case "tagName":
		return vm.ToValue(strings.ToUpper(el.Tag()))
	case "className":
		v, _ := el.Attr("class")
		return vm.ToValue(v)
	case "textContent":
		return vm.ToValue(el.TextContent())
	case "innerHTML":
		return vm.ToValue(el.InnerHTML())
	case "outerHTML":
		return vm.ToValue(el.OuterHTML())
	case "isConnected":
		return vm.ToValue(el.IsConnected())
	case "parentElement":
		return o.e.wrapElement(el.ParentElement())
	case "classList":
		return o.e.classList(el)
	case "style":
		return vm.NewDynamicObject(&styleObject{e: o.e, el: el})
	case "getAttribute":
		return o.fn(func(call goja.FunctionCall) goja.Value {
			v, ok := el.Attr(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "setAttribute":
		return o.fn(func(call goja.FunctionCall) goja.Value {
			el.SetAttr(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "removeAttribute":
		return o.fn(func(call goja.FunctionCall) goja.Value {
			el.RemoveAttr(call.Argument(0).String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return o.fn(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(el.HasAttr(call.Argument(0).String()))
		})
	case "querySelector":
		return o.fn(func(call goja.FunctionCall) goja.Value {
			found, err := el.Query(call.Argument(0).String(), false)
			if err != nil {
				panic(vm.NewTypeError(err.Error()))
			}
			return o.e.wrapElement(found)
		})
	}
	v, ok := el.Prop(key)
	if !ok {
		return goja.Undefined()
	}
	if gv, ok := v.(goja.Value); ok {
		return gv
	}
	return vm.ToValue(v)
}

func (o *elementObject) Set(key string, val goja.Value) bool {
	el := o.el
	switch key {
	case "id":
		el.SetAttr("id", val.String())
	case "className":
		el.SetAttr("class", val.String())
	case "textContent":
		el.SetTextContent(val.String())
	case "innerHTML":
		if err := el.SetInnerHTML(val.String()); err != nil {
			panic(o.e.vm.NewTypeError(err.Error()))
		}
	case "tagName", "classList", "style", "parentElement", "isConnected", "outerHTML":
		return false
	default:
		// Objects and functions stay script values so their methods remain
		// callable from call instructions.
		if obj, ok := val.(*goja.Object); ok {
			el.SetProp(key, goja.Value(obj))
		} else {
			el.SetProp(key, val.Export())
		}
	}
	return true
}

func (o *elementObject) Has(key string) bool {
	switch key {
	case "id", "tagName", "className", "textContent", "innerHTML", "outerHTML", "isConnected",
		"parentElement", "classList", "style", "getAttribute", "setAttribute",
		"removeAttribute", "hasAttribute", "querySelector":
		return true
	}
	_, ok := o.el.Prop(key)
	return ok
}

func (o *elementObject) Delete(key string) bool {
	o.el.DeleteProp(key)
	return true
}

func (o *elementObject) Keys() []string {
	return o.el.PropNames()
}

func (e *Engine) classList(el *dom.Element) goja.Value {
	vm := e.vm
	cl := el.ClassList()
	obj := vm.NewObject()
	names := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = a.String()
		}
		return out
	}
	_ = obj.Set("add", func(call goja.FunctionCall) goja.Value {
		cl.Add(names(call)...)
		return goja.Undefined()
	})
	_ = obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		cl.Remove(names(call)...)
		return goja.Undefined()
	})
	_ = obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(cl.Toggle(call.Argument(0).String()))
	})
	_ = obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(cl.Contains(call.Argument(0).String()))
	})
	_ = obj.Set("length", len(cl.Values()))
	return obj
}

// styleObject maps camelCase style properties onto inline declarations.
type styleObject struct {
	e  *Engine
	el *dom.Element
}

func (s *styleObject) Get(key string) goja.Value {
	return s.e.vm.ToValue(s.el.Style(kebab(key)))
}

func (s *styleObject) Set(key string, val goja.Value) bool {
	v := ""
	if !goja.IsNull(val) && !goja.IsUndefined(val) {
		v = val.String()
	}
	s.el.SetStyle(kebab(key), v)
	return true
}

func (s *styleObject) Has(key string) bool { return s.el.Style(kebab(key)) != "" }

func (s *styleObject) Delete(key string) bool {
	s.el.SetStyle(kebab(key), "")
	return true
}

func (s *styleObject) Keys() []string { return s.el.StyleNames() }

func kebab(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (e *Engine) wrapEvent(evt *dom.Event) goja.Value {
	if evt == nil {
		return goja.Undefined()
	}
	vm := e.vm
	obj := vm.NewObject()
	_ = obj.Set("type", evt.Type)
	_ = obj.Set("detail", evt.Detail)
	_ = obj.Set("bubbles", evt.Bubbles)
	_ = obj.Set("cancelable", evt.Cancelable)
	_ = obj.Set("target", e.wrapElement(evt.Target()))
	_ = obj.Set("currentTarget", e.wrapElement(evt.CurrentTarget()))
	_ = obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		evt.PreventDefault()
		return goja.Undefined()
	})
	_ = obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		evt.StopPropagation()
		return goja.Undefined()
	})
	_ = obj.DefineAccessorProperty("defaultPrevented", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return vm.ToValue(evt.DefaultPrevented())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}
