package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "reset",
		Short:       "Delete all stored points of interest and settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLoadAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes every manual point of interest; pass --yes to confirm")
			}
			if err := app.store.Reset(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "State cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
