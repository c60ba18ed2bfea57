package cmd

import (
	"fmt"
	"strings"

	poirender "github.com/bnema/geowhisper/internal/adapters/render/pois"
	"github.com/bnema/geowhisper/internal/application"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/spf13/cobra"
)

func newPoiCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "poi",
		Aliases: []string{"pois"},
		Short:   "Manage points of interest",
	}

	cmd.AddCommand(
		newPoiAddCmd(app),
		newPoiRemoveCmd(app),
		newPoiUpdateCmd(app),
		newPoiGetCmd(app),
		newPoiVisibilityCmd(app, "show", "Make a point of interest visible", true),
		newPoiVisibilityCmd(app, "hide", "Hide a point of interest", false),
		newPoiToggleCmd(app),
		newPoiListCmd(app),
		newPoiSearchCmd(app),
		newPoiNearCmd(app),
	)

	return cmd
}

func newPoiAddCmd(app *app) *cobra.Command {
	var (
		draft    application.PoiDraft
		lat, lon float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manual point of interest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft.Coordinate = domain.Coordinate{Latitude: lat, Longitude: lon}

			poi, err := app.store.AddManualPoi(cmd.Context(), draft)
			if err != nil {
				return err
			}
			warnIfNotSaved(app)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), poi)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", poi.Name, poi.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "Display name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().StringVar(&draft.Category, "category", "", "Category (default: unknown)")
	cmd.Flags().StringVar(&draft.Address, "address", "", "Street address")
	cmd.Flags().BoolVar(&draft.Hidden, "hidden", false, "Add the point hidden")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func newPoiRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a manual point of interest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.RemoveManualPoi(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}
			warnIfNotSaved(app)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newPoiUpdateCmd(app *app) *cobra.Command {
	var (
		name, category, address string
		lat, lon                float64
		asJSON                  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := app.store.Poi(id)
			if err != nil {
				return fmt.Errorf("update %s: %w", id, err)
			}

			flags := cmd.Flags()
			update := application.PoiUpdate{}
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("category") {
				update.Category = &category
			}
			if flags.Changed("address") {
				update.Address = &address
			}
			if flags.Changed("lat") || flags.Changed("lon") {
				coordinate := current.Coordinate
				if flags.Changed("lat") {
					coordinate.Latitude = lat
				}
				if flags.Changed("lon") {
					coordinate.Longitude = lon
				}
				update.Coordinate = &coordinate
			}

			poi, err := app.store.UpdatePoi(cmd.Context(), id, update)
			if err != nil {
				return fmt.Errorf("update %s: %w", id, err)
			}
			warnIfNotSaved(app)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), poi)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", poi.Name, poi.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPoiGetCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poi, err := app.store.Poi(args[0])
			if err != nil {
				return fmt.Errorf("get %s: %w", args[0], err)
			}

			return writePois(cmd, app, poirender.View{Title: poi.Name, Pois: []domain.PointOfInterest{poi}}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPoiVisibilityCmd(app *app, use, short string, visible bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.SetVisibility(cmd.Context(), args[0], visible); err != nil {
				return fmt.Errorf("%s %s: %w", use, args[0], err)
			}
			warnIfNotSaved(app)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s visible: %t\n", args[0], visible)
			return nil
		},
	}
}

func newPoiToggleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the visibility of a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, err := app.store.ToggleVisibility(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("toggle %s: %w", args[0], err)
			}
			warnIfNotSaved(app)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s visible: %t\n", args[0], visible)
			return nil
		},
	}
}

func newPoiListCmd(app *app) *cobra.Command {
	var (
		visibleOnly bool
		category    string
		source      string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List points of interest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pois []domain.PointOfInterest
			switch strings.ToLower(strings.TrimSpace(source)) {
			case "":
				pois = app.store.AllPois()
			case string(domain.PoiSourceManual):
				pois = app.store.ManualPois()
			case string(domain.PoiSourceRemote):
				pois = app.store.RemotePois()
			default:
				return fmt.Errorf("unknown source %q (want manual or remote)", source)
			}

			pois = keepPois(pois, func(poi domain.PointOfInterest) bool {
				if visibleOnly && !poi.IsVisible {
					return false
				}
				return category == "" || poi.Category == category
			})

			return writePois(cmd, app, poirender.View{Pois: pois}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "Only visible points")
	cmd.Flags().StringVar(&category, "category", "", "Only points with this exact category")
	cmd.Flags().StringVar(&source, "source", "", "Only points from this source (manual, remote)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPoiSearchCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find visible points of interest by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pois := app.store.SearchByName(args[0])
			return writePois(cmd, app, poirender.View{Title: fmt.Sprintf("Matching %q", args[0]), Pois: pois}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPoiNearCmd(app *app) *cobra.Command {
	var (
		lat, lon, radius float64
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "near",
		Short: "List visible points of interest around a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			center := domain.Coordinate{Latitude: lat, Longitude: lon}
			if err := center.Validate(); err != nil {
				return err
			}
			if radius <= 0 {
				radius = app.store.Settings().SearchRadiusMeters
			}

			return writePois(cmd, app, poirender.View{
				Title:        fmt.Sprintf("Within %.0f m of %s", radius, center),
				Pois:         app.store.WithinRadius(center, radius),
				Origin:       &center,
				RadiusMeters: radius,
			}, asJSON)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Radius in meters (default: search radius setting)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func writePois(cmd *cobra.Command, app *app, view poirender.View, asJSON bool) error {
	if asJSON {
		pois := view.Pois
		if pois == nil {
			pois = []domain.PointOfInterest{}
		}
		return writeJSON(cmd.OutOrStdout(), pois)
	}

	rendered, err := app.renderer(view, poirender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render pois: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func keepPois(pois []domain.PointOfInterest, keep func(domain.PointOfInterest) bool) []domain.PointOfInterest {
	kept := make([]domain.PointOfInterest, 0, len(pois))
	for _, poi := range pois {
		if keep(poi) {
			kept = append(kept, poi)
		}
	}

	return kept
}

// warnIfNotSaved notes mutations that only live in this process.
func warnIfNotSaved(app *app) {
	if !app.store.Settings().AutoSave {
		app.logger.Warn("auto-save is disabled, change is not persisted")
	}
}
