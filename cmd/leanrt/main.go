package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"leanrt/internal/trace"
	"leanrt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "leanrt",
	Short: "Reference-counted object runtime for Lean-style programs",
	Long: `leanrt hosts the object runtime: boxed scalars, constructors, closures,
arrays, strings, arbitrary precision numbers, thunks and refs. It runs the
built-in programs natively or through program images and diffs the two.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupSession,
}

// exitCode is the status the process ends with after a successful command.
var exitCode int

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: nearest leanrt.toml)")
	pf.Bool("debug", false, "enable pointer checks and poison freed cells")
	pf.String("rc-mode", "nonatomic", "reference count mode (nonatomic|atomic)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go execution trace to file")
}

// main runs the root command and exits with the status of the guest
// program, or 1 when the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	closeSession(rootCmd.ErrOrStderr(), err != nil || exitCode != 0)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
