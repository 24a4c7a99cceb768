package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func restoreDefault(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"info", slog.LevelInfo, false},
		{"InFo", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"trace", LevelTrace, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LevelFromString(tt.in)
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestSetupLevels(t *testing.T) {
	restoreDefault(t)
	t.Setenv(EnvLevel, "")

	tests := []struct {
		name     string
		cfg      Config
		env      string
		enabled  []slog.Level
		disabled []slog.Level
		wantErr  bool
	}{
		{"default", Config{}, "", []slog.Level{slog.LevelInfo, slog.LevelWarn}, []slog.Level{slog.LevelDebug}, false},
		{"json debug", Config{Level: "debug", JSON: true}, "", []slog.Level{slog.LevelDebug}, []slog.Level{LevelTrace}, false},
		{"env", Config{}, "warn", []slog.Level{slog.LevelWarn}, []slog.Level{slog.LevelInfo}, false},
		{"flag beats env", Config{Level: "trace"}, "error", []slog.Level{LevelTrace}, nil, false},
		{"wrong", Config{Level: "wrong"}, "", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLevel, tt.env)
			err := SetupWriter(tt.cfg, &bytes.Buffer{})
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			h := slog.Default().Handler()
			for _, l := range tt.enabled {
				assert.Assert(t, h.Enabled(context.Background(), l), "level %s should be enabled", l)
			}
			for _, l := range tt.disabled {
				assert.Assert(t, !h.Enabled(context.Background(), l), "level %s should be disabled", l)
			}
		})
	}
}

func TestJSONOutputNamesTrace(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	assert.NilError(t, SetupWriter(Config{Level: "trace", JSON: true}, &buf))
	slog.Log(context.Background(), LevelTrace, "hop resolved")

	var rec map[string]any
	assert.NilError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, rec["level"], "TRACE")
	assert.Equal(t, rec["msg"], "hop resolved")
}

func TestTextOutputHasNoColorForBuffers(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	assert.NilError(t, SetupWriter(Config{}, &buf))
	slog.Warn("include skipped", "path", "/tmp/x.yaml")
	out := buf.String()
	assert.Assert(t, strings.Contains(out, "include skipped"))
	assert.Assert(t, !strings.Contains(out, "\x1b["), "unexpected ANSI escapes in %q", out)
}
