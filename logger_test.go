package auth_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-campus-auth"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return slog.New(h), &buf
}

func TestSlogLoggerLevels(t *testing.T) {
	base, buf := newBufferLogger(slog.LevelDebug)
	log := auth.NewSlogLogger(base)

	log.Debug("dbg", "a", 1)
	log.Info("inf", "b", 2)
	log.Warn("wrn", "c", 3)
	log.Error("err", "d", 4)

	out := buf.String()
	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}
	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.attr)
	}
}

func TestSlogLoggerWith(t *testing.T) {
	base, buf := newBufferLogger(slog.LevelInfo)
	log := auth.NewSlogLogger(base).With("req_id", "123")

	log.Info("hello", "k", "v")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "req_id=123")
	assert.Contains(t, out, "k=v")
	assert.NotContains(t, out, "hidden")
}

func TestSlogProviderTagsLoggerName(t *testing.T) {
	base, buf := newBufferLogger(slog.LevelInfo)
	provider := auth.NewSlogProvider(base)

	provider.GetLogger("auth.login").Info("ready")
	assert.Contains(t, buf.String(), "logger=auth.login")
}

func TestResolveLogger(t *testing.T) {
	base, buf := newBufferLogger(slog.LevelInfo)
	explicit := auth.NewSlogLogger(base)

	assert.Same(t, explicit, auth.ResolveLogger("x", nil, explicit))

	resolved := auth.ResolveLogger("from.provider", auth.NewSlogProvider(base), nil)
	resolved.Info("provided")
	assert.Contains(t, buf.String(), "logger=from.provider")

	assert.NotNil(t, auth.ResolveLogger("fallback", nil, nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, auth.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, auth.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, auth.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, auth.ParseLevel("verbose"))
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := auth.NewJSONLogger(&buf, "warn")
	logger.Info("skipped")
	logger.Warn("kept", "n", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
}
