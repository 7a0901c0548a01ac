package hxbind

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig(`
prefix    = "hx-"
event     = "submit"
list-tag  = "x-list"
log-level = "debug"
scripting = false

[templates]
dir      = "partials"
base-url = "https://example.com/t/"
cache    = false
snapshot = "snap.txt"
key      = "k"
encrypt  = true
`)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if c.Prefix != "hx-" || c.Event != "submit" || c.ListTag != "x-list" || c.LogLevel != "debug" {
		t.Errorf("top-level fields = %+v", c)
	}
	if c.Scripting == nil || *c.Scripting {
		t.Errorf("Scripting = %v, want false", c.Scripting)
	}
	want := TemplateConfig{Dir: "partials", BaseURL: "https://example.com/t/", Cache: c.Templates.Cache, Snapshot: "snap.txt", Key: "k", Encrypt: true}
	if diff := cmp.Diff(want, c.Templates); diff != "" {
		t.Errorf("Templates mismatch (-want +got):\n%s", diff)
	}
	if c.Templates.Cache == nil || *c.Templates.Cache {
		t.Errorf("Templates.Cache = %v, want false", c.Templates.Cache)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `prefix = `, ""},
		{"unknown key", `colour = "red"`, "unknown keys: colour"},
		{"unknown nested key", "[templates]\nroot = \"x\"", "templates.root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.src)
			if err == nil {
				t.Fatal("ParseConfig() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	c := &Config{LogLevel: "warn"}
	log, err := c.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}

	if _, err := (&Config{LogLevel: "loud"}).Logger(&buf); err == nil {
		t.Error("Logger() with bad level error = nil")
	}
}

func TestLoadConfigTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "partials"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "partials", "row.html"), []byte("<tr>row</tr>"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "hxbind.toml")
	src := "[templates]\ndir = \"partials\"\nsnapshot = \"cache/snap\"\nkey = \"secret\"\n"
	if err := os.WriteFile(cfgPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	l, err := c.Loader()
	if err != nil {
		t.Fatalf("Loader() error = %v", err)
	}
	ctx := context.Background()
	if _, err := l.Load(ctx, true, "row", "row.html"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := c.SaveSnapshot(l); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	// A fresh loader picks the cached entry up from the snapshot.
	c2, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	l2, err := c2.Loader()
	if err != nil {
		t.Fatalf("Loader() error = %v", err)
	}
	if _, ok := l2.Cached("row"); !ok {
		t.Error("snapshot entry not imported")
	}
}

func TestConfigLoaderErrors(t *testing.T) {
	c := &Config{Dir: t.TempDir(), Templates: TemplateConfig{Snapshot: "snap"}}
	if _, err := c.Loader(); err == nil {
		t.Error("Loader() without key error = nil")
	}
	c = &Config{Dir: t.TempDir(), Templates: TemplateConfig{BaseURL: "://bad"}}
	if _, err := c.Loader(); err == nil {
		t.Error("Loader() with bad base-url error = nil")
	}
}

func TestConfigOptions(t *testing.T) {
	off := false
	c := &Config{Prefix: "hx-", Event: "submit", ListTag: "x-list", Scripting: &off, Templates: TemplateConfig{Cache: &off}}
	o := newOptions(c.Options(nil, nil))
	if o.prefix != "hx-" || o.event != "submit" || o.listTag != "x-list" {
		t.Errorf("options = %+v", o)
	}
	if o.cacheTemplates {
		t.Error("cacheTemplates = true, want false")
	}
	if o.scripter != nil {
		t.Errorf("scripter = %v, want nil", o.scripter)
	}

	o = newOptions((&Config{}).Options(nil, nil))
	if o.prefix != DefaultPrefix || o.event != DefaultEvent || o.scripter == nil || !o.cacheTemplates {
		t.Errorf("default options = %+v", o)
	}
}

func TestConfigTamperedSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "snap"), []byte("s.bm90aGluZw.AAAA"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{Dir: dir, Templates: TemplateConfig{Snapshot: "snap", Key: "k"}}
	_, err := c.Loader()
	if !errors.Is(err, ErrSnapshotInvalid) {
		t.Errorf("Loader() error = %v, want ErrSnapshotInvalid", err)
	}
}
