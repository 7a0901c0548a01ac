// Package template resolves template references to HTML and caches the
// result.
//
// A reference is one of:
//
//   - inline markup, recognised by a leading '<'
//   - the name of a templ.Component registered with Register
//   - an http or https URL
//   - a path, read from the loader's file system or, when only a base URL
//     is configured, fetched relative to it
//
// Concurrent loads of the same key share one fetch.
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/sync/singleflight"

	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/encoding"
)

// Sentinel errors.
var (
	ErrNotFound   = errors.New("template: not found")
	ErrNoEncoder  = errors.New("template: no snapshot encoder configured")
	ErrBadVersion = errors.New("template: unsupported snapshot version")
	ErrTooLarge   = errors.New("template: response body too large")
)

// DefaultMaxSize caps the body of a fetched template.
const DefaultMaxSize = 4 << 20

// Source records where a template came from.
type Source string

const (
	SourceInline    Source = "inline"
	SourceComponent Source = "component"
	SourceFile      Source = "file"
	SourceHTTP      Source = "http"
)

// Template is resolved markup ready to be cloned into a document.
type Template struct {
	Key    string
	Ref    string
	Source Source
	HTML   string
}

// Clone parses the markup into a fresh fragment owned by doc.
func (t *Template) Clone(doc *dom.Document) (*dom.Fragment, error) {
	return doc.ParseFragment(t.HTML)
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system paths are read from.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.fsys = fsys }
}

// WithBaseURL resolves relative paths against base when no file system is
// configured.
func WithBaseURL(base *url.URL) Option {
	return func(l *Loader) { l.base = base }
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxSize caps fetched template bodies at n bytes.
func WithMaxSize(n int64) Option {
	return func(l *Loader) { l.maxSize = n }
}

// WithEncoder enables Export and Import.
func WithEncoder(enc *encoding.Encoder) Option {
	return func(l *Loader) { l.enc = enc }
}

// Loader resolves and caches templates.
type Loader struct {
	fsys   fs.FS
	base   *url.URL
	client  *http.Client
	enc     *encoding.Encoder
	maxSize int64

	mu         sync.RWMutex
	cache      map[string]*Template
	components map[string]templ.Component

	group singleflight.Group
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:     http.DefaultClient,
		maxSize:    DefaultMaxSize,
		cache:      make(map[string]*Template),
		components: make(map[string]templ.Component),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register makes c loadable by name.
func (l *Loader) Register(name string, c templ.Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.components[name] = c
}

// Load resolves ref, keyed by name (or ref when name is empty). With cache
// set, a previously loaded template is reused and the result is stored.
func (l *Loader) Load(ctx context.Context, cache bool, name, ref string) (*Template, error) {
	if ref == "" {
		ref = name
	}
	key := name
	if key == "" {
		key = ref
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if cache {
		if t, ok := l.Cached(key); ok {
			return t, nil
		}
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		if cache {
			if t, ok := l.Cached(key); ok {
				return t, nil
			}
		}
		t, err := l.resolve(ctx, key, ref)
		if err != nil {
			return nil, err
		}
		if cache {
			l.mu.Lock()
			l.cache[key] = t
			l.mu.Unlock()
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// Cached returns the cached template for key.
func (l *Loader) Cached(key string) (*Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.cache[key]
	return t, ok
}

// Forget drops key from the cache, or everything when key is empty.
func (l *Loader) Forget(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key == "" {
		l.cache = make(map[string]*Template)
		return
	}
	delete(l.cache, key)
}

func (l *Loader) resolve(ctx context.Context, key, ref string) (*Template, error) {
	t := &Template{Key: key, Ref: ref}
	trimmed := strings.TrimSpace(ref)

	if strings.HasPrefix(trimmed, "<") {
		t.Source, t.HTML = SourceInline, ref
		return t, nil
	}

	l.mu.RLock()
	c, ok := l.components[ref]
	l.mu.RUnlock()
	if ok {
		var buf bytes.Buffer
		if err := c.Render(ctx, &buf); err != nil {
			return nil, fmt.Errorf("template %q: render: %w", ref, err)
		}
		t.Source, t.HTML = SourceComponent, buf.String()
		return t, nil
	}

	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetch(ctx, t, u)
	}
	if l.fsys != nil {
		p := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
			}
			return nil, fmt.Errorf("template %q: %w", ref, err)
		}
		t.Source, t.HTML = SourceFile, string(data)
		return t, nil
	}
	if l.base != nil {
		rel, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", ref, err)
		}
		return l.fetch(ctx, t, l.base.ResolveReference(rel))
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func (l *Loader) fetch(ctx context.Context, t *Template, u *url.URL) (*Template, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Ref, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("template %q: %s", t.Ref, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Ref, err)
	}
	if int64(len(body)) > l.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, u, l.maxSize)
	}
	t.Source, t.HTML = SourceHTTP, string(body)
	return t, nil
}
