package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leanrt/internal/config"
	"leanrt/internal/observ"
	"leanrt/internal/prof"
	"leanrt/internal/rt"
	"leanrt/internal/trace"
)

// session is the state shared by one CLI invocation.
type session struct {
	cfg       config.Config
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	prof      *prof.Session
	timer     *observ.Timer
	timings   bool
	styled    bool
}

var current *session

// setupSession resolves the config, applies flag overrides and starts
// tracing and profiling for the command.
func setupSession(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s := &session{cfg: cfg, timer: observ.NewTimer()}
	s.styled = applyColor(cfg.Color)
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	tracer, err := cfg.NewTracer()
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer
	if cfg.Trace.Heartbeat > 0 && tracer.Enabled() {
		s.heartbeat = trace.StartHeartbeat(tracer, cfg.Trace.Heartbeat)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	if s.prof, err = startProfiling(cmd); err != nil {
		_ = tracer.Close()
		return err
	}
	current = s
	return nil
}

// closeSession stops profiling and tracing. When failed is set and the
// tracer keeps a ring, the ring is dumped to w.
func closeSession(w io.Writer, failed bool) {
	s := current
	if s == nil {
		return
	}
	current = nil
	if s.timings {
		fmt.Fprint(w, s.timer.Summary())
	}
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if failed {
		if ring := ringOf(s.tracer); ring != nil {
			if err := ring.Dump(w, s.cfg.Trace.Format); err != nil {
				fmt.Fprintf(w, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(w, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(w, "trace: close error: %v\n", err)
	}
	if s.prof != nil {
		if err := s.prof.Stop(); err != nil {
			fmt.Fprintf(w, "profile: %v\n", err)
		}
	}
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	default:
		return nil
	}
}

// loadConfig reads the config file and the environment, then applies the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Resolve(path, wd)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}

	if pf.Changed("debug") {
		if cfg.Debug, err = pf.GetBool("debug"); err != nil {
			return config.Config{}, err
		}
	}
	if pf.Changed("rc-mode") {
		if cfg.RCMode, err = rt.ParseRCMode(flagString(pf.GetString("rc-mode"))); err != nil {
			return config.Config{}, err
		}
	}
	if pf.Changed("color") {
		if cfg.Color, err = config.ParseColor(flagString(pf.GetString("color"))); err != nil {
			return config.Config{}, err
		}
	}
	if pf.Changed("trace-level") {
		if cfg.Trace.Level, err = trace.ParseLevel(flagString(pf.GetString("trace-level"))); err != nil {
			return config.Config{}, fmt.Errorf("invalid trace level: %w", err)
		}
	}
	if pf.Changed("trace-mode") {
		if cfg.Trace.Mode, err = trace.ParseMode(flagString(pf.GetString("trace-mode"))); err != nil {
			return config.Config{}, fmt.Errorf("invalid trace mode: %w", err)
		}
	}
	if pf.Changed("trace-format") {
		if cfg.Trace.Format, err = trace.ParseFormat(flagString(pf.GetString("trace-format"))); err != nil {
			return config.Config{}, err
		}
	}
	if pf.Changed("trace") {
		cfg.Trace.OutputPath = flagString(pf.GetString("trace"))
		// An output without a level traces phases.
		if cfg.Trace.Level == trace.LevelOff {
			cfg.Trace.Level = trace.LevelPhase
		}
	}
	if pf.Changed("trace-ring-size") {
		n, err := pf.GetInt("trace-ring-size")
		if err != nil {
			return config.Config{}, err
		}
		if n <= 0 {
			return config.Config{}, fmt.Errorf("invalid trace ring size %d", n)
		}
		cfg.Trace.RingSize = n
	}
	if pf.Changed("trace-heartbeat") {
		if cfg.Trace.Heartbeat, err = pf.GetDuration("trace-heartbeat"); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// flagString drops the lookup error of a flag registered in main.
func flagString(v string, _ error) string { return v }

// startProfiling starts the profiles named by the profiling flags.
func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	opts := prof.Options{
		CPU:   flagString(pf.GetString("cpu-profile")),
		Mem:   flagString(pf.GetString("mem-profile")),
		Trace: flagString(pf.GetString("runtime-trace")),
	}
	s, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return s, nil
}

// applyColor sets the global color mode and reports whether output is styled.
func applyColor(mode config.Color) bool {
	switch mode {
	case config.ColorOn:
		color.NoColor = false
	case config.ColorOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
	return !color.NoColor
}

// newRuntime builds a runtime on the process streams with the session
// options. args are the guest program arguments.
func (s *session) newRuntime(args []string) *rt.Runtime {
	return rt.New(s.cfg.Options(rt.NewDefaultHost(args), s.tracer))
}

// finish records the guest exit code. A runtime panic was already reported
// on the guest's stderr, so only its code survives.
func finish(code int, err error) error {
	var rerr *rt.RuntimeError
	if err != nil && !errors.As(err, &rerr) {
		return err
	}
	exitCode = code
	return nil
}
