package cmd

import "github.com/spf13/cobra"

// skipLoadAnnotation marks commands that must run without reading persisted
// state, so a damaged state file can still be reset.
const skipLoadAnnotation = "geowhisper/skip-load"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "gw",
		Short:         "GeoWhisper (gw): points of interest around where you are",
		Long:          "gw (GeoWhisper) keeps your own points of interest, follows location updates and refreshes nearby places from GeoApify when you have moved far enough.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := setLogLevel(app.logLevel, logLevel); err != nil {
			return err
		}
		if cmd.Annotations[skipLoadAnnotation] != "" {
			return nil
		}
		return app.load(cmd.Context())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSettingsCmd(app),
		newPoiCmd(app),
		newCategoriesCmd(app),
		newRefreshCmd(app),
		newWatchCmd(app),
		newPlacesCmd(app),
		newResetCmd(app),
	)

	return rootCmd
}
