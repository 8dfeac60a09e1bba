package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"leanrt/internal/region"
	"leanrt/internal/rt"
	"leanrt/internal/rt/bignum"
	"leanrt/internal/ui"
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Save and inspect compacted object regions",
}

var regionSaveCmd = &cobra.Command{
	Use:   "save [flags] <value>...",
	Short: "Save an array of values as a region file",
	Long: `Build an array from the arguments and save it as a region file. Integer
arguments become Int values, everything else becomes a String.`,
	Args: cobra.MinimumNArgs(1),
	RunE: saveRegion,
}

var regionShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Load a region file and print its objects",
	Args:  cobra.ExactArgs(1),
	RunE:  showRegion,
}

func init() {
	regionSaveCmd.Flags().StringP("output", "o", "values.lrreg", "output file")
	regionCmd.AddCommand(regionSaveCmd)
	regionCmd.AddCommand(regionShowCmd)
}

func saveRegion(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	r := current.newRuntime(nil)
	root := r.MkEmptyArrayWithCapacity(rt.Box(uint64(len(args))))
	for _, arg := range args {
		var v rt.Object
		if i, err := bignum.ParseInt(arg); err == nil {
			v = r.IntBigOf(i)
		} else {
			v = r.MkString(arg)
		}
		root = r.ArrayPush(root, v)
	}
	defer r.Dec(root)

	if err := current.timer.Time("save", func() error { return region.WriteFile(output, r, root) }); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
	return nil
}

func showRegion(cmd *cobra.Command, args []string) error {
	r := current.newRuntime(nil)
	var root rt.Object
	err := current.timer.Time("load", func() error {
		var err error
		root, err = region.ReadFile(args[0], r)
		return err
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root: %s\n\n", r.Dump(root))
	fmt.Fprint(out, ui.HeapTable(r).Render(current.styled))
	return nil
}
