package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	var ctxBuf, fbBuf bytes.Buffer
	ctxLogger := slog.New(slog.NewTextHandler(&ctxBuf, nil))
	fallback := slog.New(slog.NewTextHandler(&fbBuf, nil))

	FromContext(WithLogger(context.Background(), ctxLogger), fallback).Info("from ctx")
	FromContext(context.Background(), fallback).Info("from fallback")

	if !strings.Contains(ctxBuf.String(), "from ctx") {
		t.Errorf("context logger not used: %q", ctxBuf.String())
	}
	if !strings.Contains(fbBuf.String(), "from fallback") {
		t.Errorf("fallback logger not used: %q", fbBuf.String())
	}
	if FromContext(context.Background(), nil) != slog.Default() {
		t.Error("nil fallback should yield slog.Default()")
	}
}
