package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/immutability"
)

func newLevelsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List trust levels from weakest to strongest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range immutability.Levels() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", uint8(c), c, c.Description())
			}
			return w.Flush()
		},
	}
}
