package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/geowhisper/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change search settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSettings(cmd.OutOrStdout(), app.store.Settings(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newSettingsSetCmd(app *app) *cobra.Command {
	var (
		radius        float64
		trigger       float64
		categories    []string
		mapType       string
		autoSave      bool
		notifications bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			update := domain.SettingsUpdate{}
			if flags.Changed("radius") {
				update.SearchRadiusMeters = &radius
			}
			if flags.Changed("trigger") {
				update.FetchTriggerDistanceMeters = &trigger
			}
			if flags.Changed("categories") {
				update.Categories = categories
			}
			if flags.Changed("map-type") {
				value := domain.MapType(strings.ToLower(strings.TrimSpace(mapType)))
				update.MapType = &value
			}
			if flags.Changed("auto-save") {
				update.AutoSave = &autoSave
			}
			if flags.Changed("notifications") {
				update.EnableNotifications = &notifications
			}
			if !anyChanged(cmd, "radius", "trigger", "categories", "map-type", "auto-save", "notifications") {
				return errors.New("no settings to change")
			}

			settings, err := app.store.UpdateSettings(cmd.Context(), update)
			if err != nil {
				return err
			}

			// Turning auto-save off must still reach disk.
			if !settings.AutoSave {
				if err := app.store.Save(cmd.Context()); err != nil {
					return err
				}
			}

			return writeSettings(cmd.OutOrStdout(), settings, asJSON)
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", domain.DefaultSearchRadiusMeters, "Search radius in meters")
	cmd.Flags().Float64Var(&trigger, "trigger", domain.DefaultFetchTriggerDistanceMeters, "Distance in meters that triggers a new fetch")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Place categories to fetch (comma separated)")
	cmd.Flags().StringVar(&mapType, "map-type", string(domain.MapTypeStandard), "Map type (standard, satellite, hybrid)")
	cmd.Flags().BoolVar(&autoSave, "auto-save", true, "Persist changes automatically")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "Enable notifications")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func writeSettings(w io.Writer, settings domain.Settings, asJSON bool) error {
	if asJSON {
		return writeJSON(w, settings)
	}

	_, _ = fmt.Fprintf(w, "search radius: %.0f m\n", settings.SearchRadiusMeters)
	_, _ = fmt.Fprintf(w, "fetch trigger: %.0f m\n", settings.FetchTriggerDistanceMeters)
	_, _ = fmt.Fprintf(w, "categories: %s\n", strings.Join(settings.Categories, ", "))
	_, _ = fmt.Fprintf(w, "map type: %s\n", settings.MapType)
	_, _ = fmt.Fprintf(w, "auto save: %t\n", settings.AutoSave)
	_, err := fmt.Fprintf(w, "notifications: %t\n", settings.EnableNotifications)
	return err
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
