package hxbind

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/pthm/hxbind/internal/ctxlog"
	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/events"
	"github.com/pthm/hxbind/lib/script"
	"github.com/pthm/hxbind/lib/template"
)

// DefaultEvent is the host event interpreters attach to.
const DefaultEvent = "click"

// TemplateLoader resolves template references. *template.Loader
// implements it.
type TemplateLoader interface {
	Load(ctx context.Context, cache bool, name, ref string) (*template.Template, error)
}

// Scripter runs exec sources and invokes script functions.
// *script.Engine implements it.
type Scripter interface {
	Exec(ctx context.Context, target *dom.Element, src string, evt *dom.Event) error
	Call(ctx context.Context, target *dom.Element, fn any, arg any) (any, error)
	Member(v any, name string) (any, bool)
}

// Option configures interpreters and binders.
type Option func(*options)

type options struct {
	prefix         string
	event          string
	listTag        string
	logger         *slog.Logger
	clock          clockwork.Clock
	loader         TemplateLoader
	cacheTemplates bool
	scripter       Scripter
	scripterSet    bool
	registry       *events.Registry
	schema         *Schema
}

// WithPrefix sets the marker attribute prefix. The default is "data-".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEvent sets the host event that triggers the pipeline. The default is
// "click".
func WithEvent(name string) Option {
	return func(o *options) { o.event = name }
}

// WithListTag sets the list placeholder tag excluded from selector targets.
func WithListTag(tag string) Option {
	return func(o *options) { o.listTag = tag }
}

// WithLogger sets the fallback logger for runs whose context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the clock used for timed toggles.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLoader sets the template loader used for path-like content and
// template references.
func WithLoader(l TemplateLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithTemplateCache controls the cache flag passed to the loader. Caching
// is on by default.
func WithTemplateCache(on bool) Option {
	return func(o *options) { o.cacheTemplates = on }
}

// WithScripter sets the engine for exec and call. A nil scripter disables
// scripting; Go functions stored in properties are still callable.
func WithScripter(s Scripter) Option {
	return func(o *options) {
		o.scripter = s
		o.scripterSet = true
	}
}

// WithRegistry sets the event registry. The default is events.Default.
func WithRegistry(r *events.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithSchema replaces the instruction vocabulary. The schema must provide
// the instruction names the pipeline reads.
func WithSchema(s *Schema) Option {
	return func(o *options) { o.schema = s }
}

var defaultEngine = sync.OnceValue(func() *script.Engine {
	return script.New(nil)
})

func newOptions(opts []Option) *options {
	o := &options{
		prefix:         DefaultPrefix,
		event:          DefaultEvent,
		listTag:        DefaultListTag,
		cacheTemplates: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.loader == nil {
		o.loader = template.NewLoader()
	}
	if !o.scripterSet {
		o.scripter = defaultEngine()
	}
	if o.registry == nil {
		o.registry = events.Default
	}
	if o.schema == nil {
		o.schema = Instructions
	}
	return o
}

func (o *options) log(ctx context.Context) *slog.Logger {
	return ctxlog.FromContext(ctx, o.logger)
}

// ContextWithLogger returns a context whose runs log to logger instead of
// the configured one.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, logger)
}
