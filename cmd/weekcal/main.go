package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weekcal/internal/config"
	appLog "weekcal/internal/log"
)

var version = "0.1.0-dev"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "weekcal",
		Short:         "Week and day time-grid calendar: layout engine, HTTP API and preview capture",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "./weekcal.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides config)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newLayoutCmd(opts))
	root.AddCommand(newCaptureCmd(opts))
	return root
}

// loadConfig loads the config file and applies the log level.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	conf, err := config.Load(o.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", o.configPath)
		return nil, err
	}
	level := conf.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))
	return conf, nil
}
