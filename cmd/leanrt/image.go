package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leanrt/internal/image"
	"leanrt/internal/programs"
)

var imageCmd = &cobra.Command{
	Use:               "image [flags] <program>",
	Short:             "Write the program image of a built-in program",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completePrograms,
	RunE:              writeImage,
}

func init() {
	imageCmd.Flags().StringP("output", "o", "", "output file (default: <program>.lrimg)")
	imageCmd.Flags().Bool("list", false, "print the functions instead of writing a file")
}

func writeImage(cmd *cobra.Command, args []string) error {
	p, ok := programs.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown program %q (see leanrt list)", args[0])
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}

	img := p.Image()
	if list {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "image %s (schema %d, entry %s)\n", img.Name, image.SchemaVersion, img.Entry)
		for _, fn := range img.Funcs {
			fmt.Fprintf(out, "  %s/%d: %d regs, %d instrs\n", fn.Name, fn.Params, fn.Regs, len(fn.Code))
		}
		return nil
	}

	if output == "" {
		output = p.Name + ".lrimg"
	}
	if err := current.timer.Time("save", func() error { return image.Save(output, img) }); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d functions)\n", output, len(img.Funcs))
	return nil
}
