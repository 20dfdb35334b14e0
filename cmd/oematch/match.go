package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javajack/oematch"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		output  string
		filter  string
		preview int
		fold    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "match <reference.xlsx> <query.xlsx|query.csv>",
		Short: "Match query identifiers and export the results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("filter") {
				cfg.Match.Filter = filter
			}
			if cmd.Flags().Changed("fold-width") {
				cfg.Match.FoldWidth = fold
			}

			opts := append(cfg.Options(), oematch.WithLogger(logger))
			m := oematch.NewMatcher(opts...)

			results, err := m.ProcessFiles(args[0], args[1])
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else if preview != 0 {
				cmd.Println(renderResults(results, preview))
			}

			if output == "" {
				return nil
			}
			if err := m.Export(results, output); err != nil {
				return err
			}
			if asJSON {
				logger.Info("results exported", "rows", len(results), "path", output)
				return nil
			}
			cmd.Printf("Wrote %d rows to %s\n", len(results), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "matched.xlsx", "output workbook; empty skips the export")
	cmd.Flags().StringVar(&filter, "filter", "", "keep rows matching an expression, e.g. 'Matched && HasImage()'")
	cmd.Flags().IntVar(&preview, "preview", 10, "print the first N results (-1 for all, 0 for none)")
	cmd.Flags().BoolVar(&fold, "fold-width", false, "treat full-width letters and digits as ASCII")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON instead of a table")
	return cmd
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <reference.xlsx>",
		Short: "Show how a reference workbook is understood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.load(cmd)
			if err != nil {
				return err
			}
			opts := append(cfg.Options(), oematch.WithLogger(logger))
			summary, err := oematch.Describe(args[0], opts...)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			cmd.Print(summary)
			return nil
		},
	}
}
