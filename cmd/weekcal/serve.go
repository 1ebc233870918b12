package main

import (
	"github.com/spf13/cobra"

	"weekcal/internal/ics"
	appLog "weekcal/internal/log"
	"weekcal/internal/store"
	"weekcal/internal/web"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		listen  string
		preview string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar API and week page, refreshing ICS sources on schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := root.loadConfig()
			if err != nil {
				return err
			}
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				conf.Listen = listen
			}

			appLog.Info("weekcal starting",
				"version", version,
				"listen", conf.Listen,
				"timezone", conf.Timezone,
				"week_start", conf.WeekStart,
				"refresh", conf.RefreshCron,
				"ics_count", len(conf.Sources()),
				"sample", conf.Sample,
			)

			srv := web.NewServer(conf, web.Options{
				Store:       store.New(nil),
				Fetcher:     ics.NewFetcher(conf.CacheDir, 0),
				PreviewPath: preview,
			})

			ctx := cmd.Context()
			if err := srv.StartScheduler(ctx); err != nil {
				return err
			}
			err = srv.ListenAndServe(ctx)
			appLog.Info("weekcal exiting")
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	cmd.Flags().StringVar(&preview, "preview", "./var/preview.png", "PNG served at /preview.png")
	return cmd
}
