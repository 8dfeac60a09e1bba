package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leanrt/internal/image"
	"leanrt/internal/prim"
	"leanrt/internal/programs"
	"leanrt/internal/rt"
	"leanrt/internal/ui"
)

var runCmd = &cobra.Command{
	Use:               "run [flags] <program> [-- args...]",
	Short:             "Run a built-in program",
	Long:              `Run a built-in program natively, or through its program image with --image`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completePrograms,
	RunE:              runProgram,
}

var execCmd = &cobra.Command{
	Use:   "exec [flags] <image> [-- args...]",
	Short: "Execute a program image file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  execImage,
}

func init() {
	runCmd.Flags().Bool("image", false, "run the program image instead of the native code")
	runCmd.Flags().Bool("heap", false, "print the live heap after the run")
	execCmd.Flags().Bool("heap", false, "print the live heap after the run")
}

func runProgram(cmd *cobra.Command, args []string) error {
	p, ok := programs.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown program %q (see leanrt list)", args[0])
	}
	useImage, err := cmd.Flags().GetBool("image")
	if err != nil {
		return fmt.Errorf("failed to get image flag: %w", err)
	}

	s := current
	r := s.newRuntime(args[1:])
	var code int
	if useImage {
		var m *image.Machine
		err = s.timer.Time("load", func() error {
			var err error
			m, err = p.Machine(prim.Default())
			return err
		})
		if err != nil {
			return err
		}
		err = s.timer.Time("run", func() error {
			var err error
			code, err = m.Run(cmd.Context(), r)
			return err
		})
		if s.timings {
			fmt.Fprintf(cmd.ErrOrStderr(), "steps %d\n", m.Steps())
		}
	} else {
		err = s.timer.Time("run", func() error {
			var err error
			code, err = p.RunNative(r)
			return err
		})
	}
	if err := printHeap(cmd, r); err != nil {
		return err
	}
	return finish(code, err)
}

func execImage(cmd *cobra.Command, args []string) error {
	s := current
	var m *image.Machine
	err := s.timer.Time("load", func() error {
		img, err := image.Load(args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		m, err = image.NewMachine(img, prim.Default())
		return err
	})
	if err != nil {
		return err
	}

	r := s.newRuntime(args[1:])
	var code int
	err = s.timer.Time("run", func() error {
		var err error
		code, err = m.Run(cmd.Context(), r)
		return err
	})
	if s.timings {
		fmt.Fprintf(cmd.ErrOrStderr(), "steps %d\n", m.Steps())
	}
	if err := printHeap(cmd, r); err != nil {
		return err
	}
	return finish(code, err)
}

// printHeap writes the live heap table when --heap is set.
func printHeap(cmd *cobra.Command, r *rt.Runtime) error {
	heap, err := cmd.Flags().GetBool("heap")
	if err != nil {
		return fmt.Errorf("failed to get heap flag: %w", err)
	}
	if !heap {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), ui.HeapTable(r).Render(current.styled))
	return nil
}

func completePrograms(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return programs.Names(), cobra.ShellCompDirectiveNoFileComp
}
