package main

import (
	"fmt"
	"regexp"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/immutability"
	"github.com/alexshd/immutability/internal/static"
)

type scanReport struct {
	Findings []static.Finding `yaml:"findings" json:"findings"`
	Summary  map[string]int   `yaml:"summary" json:"summary"`
}

func newScanCmd(a *app) *cobra.Command {
	var (
		dir       string
		format    string
		only      string
		failBelow string
	)
	cmd := &cobra.Command{
		Use:   "scan [packages]",
		Short: "Classify the named types declared in Go packages",
		Long: `Scan loads Go packages from source and classifies every non-generic
named type in value and pointer form. Capabilities are matched by method
set, so the scanned code does not need to import this module.

Overrides from --config are keyed by fully qualified type name, for
example "example.com/pkg.Order" or "*example.com/pkg.Draft".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := static.Options{Dir: dir, Patterns: args}
			if only != "" {
				re, err := regexp.Compile(only)
				if err != nil {
					return fmt.Errorf("invalid --only: %w", err)
				}
				opts.Only = re
			}
			var min immutability.Classification
			if failBelow != "" {
				parsed, err := immutability.ParseClassification(failBelow)
				if err != nil {
					return fmt.Errorf("invalid --fail-below: %w", err)
				}
				min = parsed
			}

			c := static.NewClassifier(a.log)
			if err := applyOverrides(c, a.cfg.Overrides); err != nil {
				return err
			}

			findings, err := c.Scan(cmd.Context(), opts)
			if err != nil {
				if len(findings) == 0 {
					return err
				}
				a.log.Warn("scan incomplete", "error", err)
			}
			a.log.Info("scan complete", "types", len(findings))

			report := scanReport{Findings: findings, Summary: make(map[string]int, 4)}
			for level, n := range static.Summary(findings) {
				report.Summary[level.String()] = n
			}
			err = render(cmd.OutOrStdout(), format, report, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "TYPE\tVALUE\tPOINTER\tPOSITION")
				for _, f := range findings {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name(), f.Value, f.Pointer, f.Position)
				}
			})
			if err != nil {
				return err
			}

			if failBelow == "" {
				return nil
			}
			if below := static.Below(findings, min); len(below) > 0 {
				return &exitError{
					code: ExitBelow,
					msg:  fmt.Sprintf("%d type(s) below %s", len(below), min),
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "directory to load packages from")
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "output format: table, yaml or json")
	cmd.Flags().StringVar(&only, "only", "", "keep types whose qualified name matches this regexp")
	cmd.Flags().StringVar(&failBelow, "fail-below", "", "exit 1 if any type is weaker than this level")
	return cmd
}

func applyOverrides(c *static.Classifier, overrides map[string]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		level, err := immutability.ParseClassification(overrides[name])
		if err != nil {
			return fmt.Errorf("override %s: %w", name, err)
		}
		c.Override(name, level)
	}
	return nil
}
