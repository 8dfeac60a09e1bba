// Package config loads runtime settings from leanrt.toml (or a YAML file
// with the same schema) and applies LEANRT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

// FileName is the config file looked up by Find.
const FileName = "leanrt.toml"

// ErrUnknownFormat reports a config path with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown config format")

// Color controls colored terminal output.
type Color string

const (
	ColorAuto Color = "auto"
	ColorOn   Color = "on"
	ColorOff  Color = "off"
)

// ParseColor converts a string to Color.
func ParseColor(s string) (Color, error) {
	switch c := Color(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorOn, ColorOff:
		return c, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode: %q (expected: auto|on|off)", s)
	}
}

// Config is the resolved runtime configuration.
type Config struct {
	Debug  bool
	RCMode rt.RCMode
	Color  Color
	Trace  trace.Config
	// Path is the file the config was read from, empty for defaults.
	Path string
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		RCMode: rt.RCNonAtomic,
		Color:  ColorAuto,
		Trace: trace.Config{
			Level:      trace.LevelOff,
			Mode:       trace.ModeStream,
			OutputPath: "-",
			RingSize:   trace.DefaultRingSize,
		},
	}
}

// file is the on-disk schema shared by TOML and YAML.
type file struct {
	Runtime struct {
		Debug  bool   `toml:"debug" yaml:"debug"`
		RCMode string `toml:"rc_mode" yaml:"rc_mode"`
		Color  string `toml:"color" yaml:"color"`
	} `toml:"runtime" yaml:"runtime"`
	Trace struct {
		Level     string `toml:"level" yaml:"level"`
		Mode      string `toml:"mode" yaml:"mode"`
		Format    string `toml:"format" yaml:"format"`
		Output    string `toml:"output" yaml:"output"`
		RingSize  int    `toml:"ring_size" yaml:"ring_size"`
		Heartbeat string `toml:"heartbeat" yaml:"heartbeat"`
	} `toml:"trace" yaml:"trace"`
}

// defined reports whether a key was present in the source file.
type defined func(keys ...string) bool

// Load reads path, picking the decoder from its extension.
func Load(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return Config{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// LoadTOML reads a leanrt.toml file.
func LoadTOML(path string) (Config, error) {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	cfg, err := f.resolve(meta.IsDefined)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadYAML reads the YAML form of the config file.
func LoadYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	cfg, err := f.resolve(yamlDefined(tree))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func yamlDefined(tree map[string]any) defined {
	return func(keys ...string) bool {
		cur := tree
		for i, k := range keys {
			v, ok := cur[k]
			if !ok {
				return false
			}
			if i == len(keys)-1 {
				return true
			}
			if cur, ok = v.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
}

// resolve overlays the keys present in the file onto Default.
func (f *file) resolve(isDefined defined) (Config, error) {
	cfg := Default()
	var err error
	if isDefined("runtime", "debug") {
		cfg.Debug = f.Runtime.Debug
	}
	if isDefined("runtime", "rc_mode") {
		if cfg.RCMode, err = rt.ParseRCMode(f.Runtime.RCMode); err != nil {
			return Config{}, err
		}
	}
	if isDefined("runtime", "color") {
		if cfg.Color, err = ParseColor(f.Runtime.Color); err != nil {
			return Config{}, err
		}
	}
	if isDefined("trace", "level") {
		if cfg.Trace.Level, err = trace.ParseLevel(f.Trace.Level); err != nil {
			return Config{}, err
		}
	}
	if isDefined("trace", "mode") {
		if cfg.Trace.Mode, err = trace.ParseMode(f.Trace.Mode); err != nil {
			return Config{}, err
		}
	}
	if isDefined("trace", "format") {
		if cfg.Trace.Format, err = trace.ParseFormat(f.Trace.Format); err != nil {
			return Config{}, err
		}
	}
	if isDefined("trace", "output") {
		cfg.Trace.OutputPath = f.Trace.Output
	}
	if isDefined("trace", "ring_size") {
		if f.Trace.RingSize <= 0 {
			return Config{}, fmt.Errorf("invalid trace ring_size %d", f.Trace.RingSize)
		}
		cfg.Trace.RingSize = f.Trace.RingSize
	}
	if isDefined("trace", "heartbeat") {
		if cfg.Trace.Heartbeat, err = time.ParseDuration(f.Trace.Heartbeat); err != nil {
			return Config{}, fmt.Errorf("invalid trace heartbeat: %w", err)
		}
	}
	return cfg, nil
}

// Find walks up from dir looking for leanrt.toml.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ApplyEnv overrides cfg with the LEANRT_* variables that are set.
func (c *Config) ApplyEnv() error {
	var err error
	if env.Has("LEANRT_DEBUG") {
		c.Debug = env.Bool("LEANRT_DEBUG")
	}
	if env.Has("LEANRT_RC_MODE") {
		if c.RCMode, err = rt.ParseRCMode(env.Str("LEANRT_RC_MODE")); err != nil {
			return fmt.Errorf("LEANRT_RC_MODE: %w", err)
		}
	}
	if env.Has("LEANRT_COLOR") {
		if c.Color, err = ParseColor(env.Str("LEANRT_COLOR")); err != nil {
			return fmt.Errorf("LEANRT_COLOR: %w", err)
		}
	}
	if env.Has("LEANRT_TRACE_LEVEL") {
		if c.Trace.Level, err = trace.ParseLevel(env.Str("LEANRT_TRACE_LEVEL")); err != nil {
			return fmt.Errorf("LEANRT_TRACE_LEVEL: %w", err)
		}
	}
	if env.Has("LEANRT_TRACE_MODE") {
		if c.Trace.Mode, err = trace.ParseMode(env.Str("LEANRT_TRACE_MODE")); err != nil {
			return fmt.Errorf("LEANRT_TRACE_MODE: %w", err)
		}
	}
	if env.Has("LEANRT_TRACE_OUTPUT") {
		c.Trace.OutputPath = env.Str("LEANRT_TRACE_OUTPUT")
	}
	if env.Has("LEANRT_TRACE_RING_SIZE") {
		if n := env.Int("LEANRT_TRACE_RING_SIZE", 0); n > 0 {
			c.Trace.RingSize = n
		}
	}
	return nil
}

// Resolve loads the config at path, or the nearest leanrt.toml above dir
// when path is empty, then applies the environment.
func Resolve(path, dir string) (Config, error) {
	cfg := Default()
	if path == "" {
		if found, ok := Find(dir); ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options builds runtime options. A nil host selects the process streams.
func (c Config) Options(host rt.Host, tracer trace.Tracer) rt.Options {
	return rt.Options{Debug: c.Debug, RCMode: c.RCMode, Host: host, Tracer: tracer}
}

// NewTracer opens the configured tracer.
func (c Config) NewTracer() (trace.Tracer, error) {
	return trace.New(c.Trace)
}
