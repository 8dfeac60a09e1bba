package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leanrt/internal/prim"
	"leanrt/internal/programs"
	"leanrt/internal/trace"
	"leanrt/internal/ui"
)

var diffCmd = &cobra.Command{
	Use:   "diff [flags] [program...]",
	Short: "Compare native and image runs of built-in programs",
	Long: `Run each program natively and through its program image on separate
runtimes, then compare exit codes, output and leaks against the expected
results. Without arguments every program is compared.`,
	ValidArgsFunction: completePrograms,
	RunE:              runDiff,
}

func init() {
	diffCmd.Flags().Int("jobs", runtime.GOMAXPROCS(0), "programs compared at once")
	diffCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	diffCmd.Flags().BoolP("verbose", "v", false, "print timings and steps of every run")
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	selected, err := selectPrograms(args)
	if err != nil {
		return err
	}
	names := make([]string, len(selected))
	for i, p := range selected {
		names[i] = p.Name
	}

	s := current
	compare := func(done func(*programs.Comparison)) ([]*programs.Comparison, error) {
		var results []*programs.Comparison
		err := s.timer.Time("diff", func() error {
			var err error
			results, err = compareSelected(cmd.Context(), selected, jobs, done)
			return err
		})
		return results, err
	}

	var results []*programs.Comparison
	if shouldUseTUI(mode) {
		results, err = runDiffWithUI(compare, names)
	} else {
		results, err = compare(nil)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, c := range results {
		if !c.OK() {
			failed++
		}
		printComparison(out, c, verbose)
	}
	if failed > 0 {
		fmt.Fprintf(out, "%d of %d programs differ\n", failed, len(results))
		exitCode = 1
	}
	return nil
}

func selectPrograms(args []string) ([]*programs.Program, error) {
	if len(args) == 0 {
		return programs.All(), nil
	}
	out := make([]*programs.Program, 0, len(args))
	for _, name := range args {
		p, ok := programs.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown program %q (see leanrt list)", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// compareSelected compares every program when all of them are selected and
// the named ones in order otherwise.
func compareSelected(ctx context.Context, selected []*programs.Program, jobs int, done func(*programs.Comparison)) ([]*programs.Comparison, error) {
	opts := current.cfg.Options(nil, trace.FromContext(ctx))
	if len(selected) == len(programs.All()) {
		return programs.CompareAll(ctx, opts, prim.Default(), jobs, done)
	}
	out := make([]*programs.Comparison, 0, len(selected))
	for _, p := range selected {
		c, err := programs.Compare(ctx, p, opts, prim.Default())
		if err != nil {
			return nil, err
		}
		if done != nil {
			done(c)
		}
		out = append(out, c)
	}
	return out, nil
}

type diffOutcome struct {
	results []*programs.Comparison
	err     error
}

func runDiffWithUI(compare func(func(*programs.Comparison)) ([]*programs.Comparison, error), names []string) ([]*programs.Comparison, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan diffOutcome, 1)

	go func() {
		res, err := compare(func(c *programs.Comparison) {
			ev := ui.Event{Program: c.Program.Name, Status: ui.StatusOK}
			if !c.OK() {
				ev.Status = ui.StatusMismatch
				ev.Note = c.Mismatches()[0]
			}
			events <- ev
		})
		outcomeCh <- diffOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("diff", names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func printComparison(out io.Writer, c *programs.Comparison, verbose bool) {
	if c.OK() {
		fmt.Fprintf(out, "%s %s\n", color.GreenString("ok      "), c.Program.Name)
	} else {
		fmt.Fprintf(out, "%s %s\n", color.RedString("mismatch"), c.Program.Name)
		for _, m := range c.Mismatches() {
			fmt.Fprintf(out, "         %s\n", m)
		}
	}
	if verbose {
		fmt.Fprintf(out, "         native %.3f ms, image %.3f ms, %d steps\n",
			toMillis(c.Native.Duration), toMillis(c.Image.Duration), c.Image.Steps)
	}
}
