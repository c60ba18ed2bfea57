package cmd

import (
	"fmt"
	"slices"

	"github.com/bnema/geowhisper/internal/application"
	"github.com/spf13/cobra"
)

type categoriesOutput struct {
	Supported []string                    `json:"supported"`
	Enabled   []string                    `json:"enabled"`
	Counts    []application.CategoryCount `json:"counts"`
}

func newCategoriesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List supported place categories and what is stored per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled := app.store.Settings().Categories
			counts := app.store.CategoryCounts()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), categoriesOutput{
					Supported: app.places.SupportedCategories(),
					Enabled:   enabled,
					Counts:    counts,
				})
			}

			out := cmd.OutOrStdout()
			for _, category := range app.places.SupportedCategories() {
				marker := " "
				if slices.Contains(enabled, category) {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", marker, category)
			}

			if len(counts) == 0 {
				return nil
			}
			_, _ = fmt.Fprintln(out)
			for _, count := range counts {
				_, _ = fmt.Fprintf(out, "%s\t%d (visible %d)\n", count.Category, count.Total, count.Visible)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
