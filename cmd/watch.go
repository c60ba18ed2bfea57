package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/geowhisper/internal/adapters/location/lines"
	poirender "github.com/bnema/geowhisper/internal/adapters/render/pois"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	var (
		input    string
		interval time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow location updates and refresh places as you move",
		Long:  "watch reads \"lat,lon[,accuracy]\" lines from stdin (or --input) and refreshes nearby places whenever the location has moved past the fetch trigger distance.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := lines.Options{Interval: interval, Logger: app.logger.With("component", "location")}
			source := lines.NewSource(cmd.InOrStdin(), opts)
			if input != "" && input != "-" {
				source = lines.NewFileSource(input, opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := app.engine.Run(ctx, source)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			status := app.engine.Status()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), refreshOutput{
					Fetched:  status.FetchCount > 0,
					Location: lastCoordinate(app),
					Places:   status.LastFetchCount,
					Pois:     app.store.RemotePois(),
				})
			}

			view := poirender.View{Title: fmt.Sprintf("Watched %d fetches", status.FetchCount), Status: &status}
			if location, ok := app.store.LastLocation(); ok {
				radius := app.store.Settings().SearchRadiusMeters
				view.Pois = app.store.WithinRadius(location.Coordinate, radius)
				view.Origin = &location.Coordinate
				view.RadiusMeters = radius
			}

			return writePois(cmd, app, view, false)
		},
	}

	cmd.Flags().StringVar(&input, "input", "-", "File with one location per line (- for stdin)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between replayed locations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func lastCoordinate(app *app) domain.Coordinate {
	if location, ok := app.store.LastLocation(); ok {
		return location.Coordinate
	}
	return domain.Coordinate{}
}
