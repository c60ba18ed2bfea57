package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/geowhisper/internal/adapters/places/geoapify"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/spf13/cobra"
)

func newPlacesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Inspect the places provider",
	}

	cmd.AddCommand(newPlacesCheckCmd(app))

	return cmd
}

func newPlacesCheckCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Check that the GeoApify API key works",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLoadAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := app.places.Ping(cmd.Context())
			switch {
			case err == nil:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "places: ok")
				return nil
			case errors.Is(err, domain.ErrMissingAPIKey):
				return fmt.Errorf("%w: set GW_GEOAPIFY_API_KEY, or geoapify.api_key or geoapify.api_key_pass in ~/%s/config.toml", err, stateDir)
			case geoapify.IsUpstreamStatus(err, http.StatusUnauthorized), geoapify.IsUpstreamStatus(err, http.StatusForbidden):
				return fmt.Errorf("places: API key rejected: %w", err)
			default:
				return fmt.Errorf("places: %w", err)
			}
		},
	}
}
