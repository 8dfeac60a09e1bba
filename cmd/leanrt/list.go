package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leanrt/internal/programs"
	"leanrt/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t := &ui.Table{
			Headers: []string{"program", "exit", "description"},
			Right:   map[int]bool{1: true},
		}
		for _, p := range programs.All() {
			t.Rows = append(t.Rows, []string{p.Name, fmt.Sprint(p.ExitCode), p.Description})
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render(current.styled))
		return nil
	},
}

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Print the object tags and layout offsets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprint(cmd.OutOrStdout(), ui.ABITable().Render(current.styled))
		return nil
	},
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
