// Package hxbind interprets declarative marker attributes on HTML elements.
//
// An element opts in by carrying one or more attributes from a small
// vocabulary (data-action, data-toggle, data-swap, ...). When its host
// event fires, an Interpreter resolves the target elements and runs a fixed
// pipeline of instruction handlers against each of them:
//
//	binding -> action -> swap -> inject -> attribute -> property ->
//	toggle -> trigger -> call -> exec -> template
//
// Every handler is a no-op unless its attribute is present. Handler
// failures are logged and never stop the pipeline.
//
// # Markup
//
//	<button data-target="#list" data-inject="li" data-anchor="afterbegin"
//	        data-toggle="busy" data-action="add">Add</button>
//
// Targets are "self" (the default), "owner" (nearest custom element,
// crossing shadow roots), "parent", or a CSS selector matched across
// shadow trees. Values are single strings, comma or semicolon separated
// lists, key=value pairs, or JSON objects.
//
// # Binding
//
// A Binder owns at most one interpreter per element and keeps a document
// bound as it changes:
//
//	b := hxbind.NewBinder(hxbind.WithLogger(logger))
//	b.Scan(doc)
//	stop := b.Observe(doc)
//	defer stop()
//
// Templ components build the attributes with Attrs:
//
//	<button { hxbind.Attrs().Target("self").Toggle("open").Build()... }>
//
// # Asynchronous work
//
// Content and template loads and timed class toggles finish after Run
// returns. The returned *Run waits for them. Timed toggles on the same host
// queue behind each other and alternate direction on every completed
// sequence.
//
// # Scripting
//
// exec and script-valued call targets run on an embedded JavaScript engine
// with this bound to the target element. Go functions of type Func stored
// in element properties are called directly. WithScripter(nil) disables
// scripting.
//
// # Configuration
//
// Tools read an hxbind.toml file (see Config) that sets the prefix, host
// event, list tag, log level and template sources.
package hxbind
