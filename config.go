package hxbind

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/pthm/hxbind/lib/encoding"
	"github.com/pthm/hxbind/lib/template"
)

// Config is the hxbind.toml file.
//
//	prefix    = "data-"
//	event     = "click"
//	list-tag  = "hx-list"
//	log-level = "info"
//	scripting = true
//
//	[templates]
//	dir      = "partials"
//	base-url = "https://example.com/partials/"
//	cache    = true
//	snapshot = ".hxbind/templates.snap"
//	key      = "secret"
//	encrypt  = false
type Config struct {
	Prefix    string         `toml:"prefix"`
	Event     string         `toml:"event"`
	ListTag   string         `toml:"list-tag"`
	LogLevel  string         `toml:"log-level"`
	Scripting *bool          `toml:"scripting"`
	Templates TemplateConfig `toml:"templates"`

	// Dir is the directory containing the config file (set at load time).
	Dir string `toml:"-"`
}

// TemplateConfig configures template resolution and the cache snapshot.
type TemplateConfig struct {
	Dir      string `toml:"dir"`
	BaseURL  string `toml:"base-url"`
	Cache    *bool  `toml:"cache"`
	Snapshot string `toml:"snapshot"`
	Key      string `toml:"key"`
	Encrypt  bool   `toml:"encrypt"`
}

// LoadConfig reads a TOML config file. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := ParseConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return c, nil
}

// ParseConfig parses TOML source.
func ParseConfig(src string) (*Config, error) {
	var c Config
	md, err := toml.Decode(src, &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if c.Dir == "" {
		c.Dir = "."
	}
	return &c, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("log-level: %w", err)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Loader builds the template loader. When a snapshot file exists it is
// imported into the cache.
func (c *Config) Loader() (*template.Loader, error) {
	var opts []template.Option
	if c.Templates.Dir != "" {
		opts = append(opts, template.WithFS(os.DirFS(c.path(c.Templates.Dir))))
	}
	if c.Templates.BaseURL != "" {
		u, err := url.Parse(c.Templates.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("templates.base-url: %w", err)
		}
		opts = append(opts, template.WithBaseURL(u))
	}
	if c.Templates.Snapshot != "" {
		if c.Templates.Key == "" {
			return nil, errors.New("templates.snapshot needs templates.key")
		}
		enc, err := encoding.NewEncoder([]byte(c.Templates.Key))
		if err != nil {
			return nil, err
		}
		opts = append(opts, template.WithEncoder(enc))
	}
	l := template.NewLoader(opts...)

	if c.Templates.Snapshot != "" {
		f, err := os.Open(c.path(c.Templates.Snapshot))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			if _, err := l.Import(f); err != nil {
				return nil, fmt.Errorf("templates.snapshot: %w", wrapLibError(err))
			}
		}
	}
	return l, nil
}

// SaveSnapshot writes the loader cache to the configured snapshot file. It
// does nothing when no snapshot is configured.
func (c *Config) SaveSnapshot(l *template.Loader) error {
	if c.Templates.Snapshot == "" {
		return nil
	}
	path := c.path(c.Templates.Snapshot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.Export(f, c.Templates.Encrypt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Options converts the configuration into interpreter options, using
// logger and loader for the collaborators they configure.
func (c *Config) Options(logger *slog.Logger, loader *template.Loader) []Option {
	var opts []Option
	if c.Prefix != "" {
		opts = append(opts, WithPrefix(c.Prefix))
	}
	if c.Event != "" {
		opts = append(opts, WithEvent(c.Event))
	}
	if c.ListTag != "" {
		opts = append(opts, WithListTag(c.ListTag))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	if loader != nil {
		opts = append(opts, WithLoader(loader))
	}
	if c.Templates.Cache != nil {
		opts = append(opts, WithTemplateCache(*c.Templates.Cache))
	}
	if c.Scripting != nil && !*c.Scripting {
		opts = append(opts, WithScripter(nil))
	}
	return opts
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}
