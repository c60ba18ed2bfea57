package cmd

import (
	"context"
	"fmt"

	poirender "github.com/bnema/geowhisper/internal/adapters/render/pois"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/spf13/cobra"
)

type refreshOutput struct {
	Fetched  bool                     `json:"fetched"`
	Location domain.Coordinate        `json:"location"`
	Places   int                      `json:"places"`
	Pois     []domain.PointOfInterest `json:"pois"`
}

func newRefreshCmd(app *app) *cobra.Command {
	var (
		lat, lon, accuracy float64
		asJSON             bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch nearby places for a location right away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var acc *float64
			if cmd.Flags().Changed("accuracy") {
				acc = &accuracy
			}
			location := domain.NewLocation(lat, lon, acc, app.now())
			if err := location.Coordinate.Validate(); err != nil {
				return err
			}

			defer app.engine.Stop()
			app.engine.Observe(cmd.Context(), location)

			var fetched bool
			refresh := func(ctx context.Context) error {
				var err error
				fetched, err = app.engine.RefreshNow(ctx)
				return err
			}

			if asJSON {
				if err := refresh(cmd.Context()); err != nil {
					return err
				}
			} else if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching nearby places...", refresh); err != nil {
				return err
			}

			status := app.engine.Status()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), refreshOutput{
					Fetched:  fetched,
					Location: location.Coordinate,
					Places:   status.LastFetchCount,
					Pois:     app.store.RemotePois(),
				})
			}

			radius := app.store.Settings().SearchRadiusMeters
			return writePois(cmd, app, poirender.View{
				Title:        fmt.Sprintf("Around %s", location.Coordinate),
				Pois:         app.store.WithinRadius(location.Coordinate, radius),
				Origin:       &location.Coordinate,
				RadiusMeters: radius,
				Status:       &status,
			}, false)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "Horizontal accuracy in meters")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}
