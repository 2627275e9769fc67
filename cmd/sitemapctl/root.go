package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/romangod6/sitemapd/config"
	"github.com/romangod6/sitemapd/internal/app"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "sitemapctl",
	Short: "Inspect and manage sitemapd sitemaps",
	Long: `sitemapctl works against the same database and settings backend as the
sitemapd server. It can render any sitemap document, read and change the
per-type sitemap settings, initialise the schema, and check a published
sitemap index by crawling it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.yaml (default . then ./config)")

	rootCmd.AddCommand(renderCmd, settingsCmd, checkCmd, migrateCmd)
}

// loadApp reads the configuration and opens the sitemap engine.
func loadApp() (*app.App, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, err
	}
	if err := app.InitLogger(cfg); err != nil {
		return nil, err
	}
	return app.New(cfg)
}

// Execute runs the root command.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}
