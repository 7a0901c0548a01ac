package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	// flags keep their values between executions
	configPath, runSelector, runEvent, runShowEvent, dryRun = "hxbind.toml", "", "", false, false
	rootCmd.PersistentFlags().Lookup("config").Changed = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writePage(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	page := writePage(t, `<body><button id="b" data-toggle="on" data-action="go"></button></body>`)
	out, errOut, err := execute(t, "run", page, "--on", "#b", "--events")
	require.NoError(t, err)
	require.Contains(t, out, `class="on"`)
	require.Contains(t, errOut, "event action")
}

func TestRunCommandConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "hxbind.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("prefix = \"hx-\"\nevent = \"tap\"\n"), 0o644))

	page := writePage(t, `<body><button id="b" hx-toggle="on"></button></body>`)
	out, _, err := execute(t, "run", page, "--on", "#b", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, `class="on"`)

	_, _, err = execute(t, "run", page, "--on", "#b", "--config", filepath.Join(dir, "missing.toml"))
	require.Error(t, err, "explicit missing config accepted")
}

func TestCheckCommand(t *testing.T) {
	good := writePage(t, `<body><p data-toggle="a"></p></body>`)
	_, _, err := execute(t, "check", good)
	require.NoError(t, err)

	bad := writePage(t, `<body><p id="x" data-anchor="middle"></p></body>`)
	out, _, err := execute(t, "check", bad)
	require.Error(t, err)
	require.Contains(t, out, "p#x: anchor: unknown position")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, version)
}
