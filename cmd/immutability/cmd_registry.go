package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/immutability"
)

type registryRow struct {
	Type           string                      `yaml:"type" json:"type"`
	Classification immutability.Classification `yaml:"classification" json:"classification"`
}

func newRegistryCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Print the entries of the default runtime registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := immutability.Default().All()
			a.log.Debug("registry loaded", "entries", len(entries))

			rows := make([]registryRow, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, registryRow{Type: e.Type.String(), Classification: e.Classification})
			}
			return render(cmd.OutOrStdout(), format, rows, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "TYPE\tCLASSIFICATION")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\n", r.Type, r.Classification)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, yaml or json")
	return cmd
}
