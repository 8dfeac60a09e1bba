package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xyproto/env/v2"

	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTOMLKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, `
[runtime]
rc_mode = "atomic"

[trace]
level = "detail"
heartbeat = "250ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RCMode != rt.RCAtomic {
		t.Fatalf("expected atomic rc mode, got %s", cfg.RCMode)
	}
	if cfg.Debug {
		t.Fatalf("expected debug to keep its default")
	}
	if cfg.Trace.Level != trace.LevelDetail || cfg.Trace.Heartbeat != 250*time.Millisecond {
		t.Fatalf("unexpected trace config %+v", cfg.Trace)
	}
	if cfg.Trace.RingSize != 4096 || cfg.Trace.Mode != trace.ModeStream {
		t.Fatalf("expected default ring size and mode, got %+v", cfg.Trace)
	}
	if cfg.Path != path {
		t.Fatalf("expected path %s, got %s", path, cfg.Path)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "leanrt.yaml", `
runtime:
  debug: true
  color: "off"
trace:
  mode: ring
  ring_size: 64
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Debug || cfg.Color != ColorOff {
		t.Fatalf("unexpected runtime section %+v", cfg)
	}
	if cfg.Trace.Mode != trace.ModeRing || cfg.Trace.RingSize != 64 {
		t.Fatalf("unexpected trace section %+v", cfg.Trace)
	}
	if cfg.RCMode != rt.RCNonAtomic {
		t.Fatalf("expected default rc mode, got %s", cfg.RCMode)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"rc.toml", "[runtime]\nrc_mode = \"sometimes\"\n", "invalid rc mode"},
		{"level.toml", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"ring.toml", "[trace]\nring_size = 0\n", "ring_size"},
		{"unknown.toml", "[runtime]\nturbo = true\n", "unknown key"},
		{"syntax.toml", "[runtime\n", "failed to parse TOML"},
		{"color.yaml", "runtime:\n  color: rainbow\n", "invalid color mode"},
	}
	for _, tc := range cases {
		path := writeFile(t, dir, tc.name, tc.content)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
	if _, err := Load(filepath.Join(dir, "leanrt.ini")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Cleanup(env.Load)
	t.Setenv("LEANRT_DEBUG", "true")
	t.Setenv("LEANRT_RC_MODE", "atomic")
	t.Setenv("LEANRT_TRACE_LEVEL", "debug")
	t.Setenv("LEANRT_TRACE_RING_SIZE", "128")
	env.Load()
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if !cfg.Debug || cfg.RCMode != rt.RCAtomic {
		t.Fatalf("unexpected runtime settings %+v", cfg)
	}
	if cfg.Trace.Level != trace.LevelDebug || cfg.Trace.RingSize != 128 {
		t.Fatalf("unexpected trace settings %+v", cfg.Trace)
	}

	t.Setenv("LEANRT_TRACE_MODE", "sideways")
	env.Load()
	if err := cfg.ApplyEnv(); err == nil || !strings.Contains(err.Error(), "LEANRT_TRACE_MODE") {
		t.Fatalf("expected LEANRT_TRACE_MODE error, got %v", err)
	}
}

func TestResolveFindsNearestFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "[runtime]\ndebug = true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, err := Resolve("", nested)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !cfg.Debug || cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("expected the root config, got %+v", cfg)
	}

	opts := cfg.Options(rt.NewTestHost(nil, nil), nil)
	if !opts.Debug || opts.RCMode != rt.RCNonAtomic {
		t.Fatalf("unexpected options %+v", opts)
	}
}
