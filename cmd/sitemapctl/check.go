package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/romangod6/sitemapd/internal/utils"
	"github.com/romangod6/sitemapd/internal/verify"
)

var (
	checkConcurrency int
	checkRetries     int
	checkRender      bool
	checkJSON        bool
	checkLogDir      string
	checkTimeout     time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check <index-url>",
	Short: "Crawl a sitemap index and probe every listed page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexURL := args[0]
		u, err := url.Parse(indexURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid index URL %q", indexURL)
		}

		runLog, err := utils.NewRunLogger(checkLogDir, u.Host, !checkJSON)
		if err != nil {
			return err
		}
		defer runLog.Close()

		checker := verify.NewChecker(verify.Options{
			Concurrency: checkConcurrency,
			Retries:     checkRetries,
			Timeout:     checkTimeout,
			Logger:      &runLog.Logger,
		})

		report, err := checker.Run(cmd.Context(), indexURL)
		if err != nil {
			return err
		}

		if checkRender {
			rendered, err := verify.RenderCheck(cmd.Context(), indexURL, 2*checkTimeout)
			if err != nil {
				runLog.Error().Err(err).Msg("Render check failed")
			} else {
				runLog.Info().Int("rows", rendered.Rows).Str("heading", rendered.Heading).Msg("Render check passed")
			}
		}

		out := cmd.OutOrStdout()
		if checkJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		for _, s := range report.Sitemaps {
			status := "ok"
			if s.Error != "" {
				status = s.Error
			}
			fmt.Fprintf(out, "%-60s %4d urls  %s\n", s.URL, s.URLs, status)
		}
		for _, p := range report.Pages {
			if !p.OK() {
				fmt.Fprintf(out, "BROKEN %s (%d) %s\n", p.URL, p.Status, p.Error)
			}
		}
		fmt.Fprintf(out, "%d sitemaps, %d pages, %d broken (log: %s)\n",
			len(report.Sitemaps), len(report.Pages), report.Broken, runLog.Path())

		if report.Broken > 0 {
			return fmt.Errorf("%d broken entries", report.Broken)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkConcurrency, "concurrency", "c", 4, "parallel page probes")
	checkCmd.Flags().IntVar(&checkRetries, "retries", 2, "retries per page probe")
	checkCmd.Flags().BoolVar(&checkRender, "render", false, "also render the index in headless Chrome")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	checkCmd.Flags().StringVar(&checkLogDir, "log-dir", "logs", "directory for per-run log files")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 15*time.Second, "per-request timeout")
}
