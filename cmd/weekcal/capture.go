package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"weekcal/internal/capture"
	"weekcal/internal/ics"
	appLog "weekcal/internal/log"
	"weekcal/internal/store"
	"weekcal/internal/web"
)

func newCaptureCmd(root *rootOptions) *cobra.Command {
	var (
		base      string
		date      string
		out       string
		timeout   time.Duration
		noSandbox bool
	)
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Screenshot the week page to a PNG",
		Long: "Without --url an in-process server is started on a loopback port,\n" +
			"refreshed once, captured and stopped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := root.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if base == "" {
				// Loopback only; the capture needs no credentials.
				local := *conf
				local.BasicAuth = nil
				srv := web.NewServer(&local, web.Options{
					Store:   store.New(nil),
					Fetcher: ics.NewFetcher(conf.CacheDir, 0),
				})
				srv.Refresh(ctx)

				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return err
				}
				hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
				go func() {
					if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						appLog.Error("capture server failed", err)
					}
				}()
				defer hs.Close()
				base = "http://" + ln.Addr().String()
			}

			target, err := capture.CalendarURL(base, date)
			if err != nil {
				return err
			}
			_, err = capture.CalendarPNG(ctx, capture.Options{
				URL:        target,
				OutputPath: out,
				Width:      conf.View.Width,
				Height:     conf.View.Height,
				Timeout:    timeout,
				Settle:     300 * time.Millisecond,
				NoSandbox:  noSandbox,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "url", "", "Base URL of a running weekcal server")
	cmd.Flags().StringVar(&date, "date", "", "First day to show (YYYY-MM-DD)")
	cmd.Flags().StringVar(&out, "out", "./var/preview.png", "Output PNG path")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Capture timeout")
	cmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "Run Chromium without its sandbox")
	return cmd
}
