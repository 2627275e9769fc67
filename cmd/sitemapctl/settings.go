package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/romangod6/sitemapd/internal/settings"
	"github.com/romangod6/sitemapd/internal/sitemap"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change per-type sitemap settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [type]",
	Short: "Show stored and effective settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		descs := a.Dispatcher.Registry().List()
		if len(args) == 1 {
			d, err := a.Dispatcher.Registry().Get(args[0])
			if err != nil {
				return fmt.Errorf("unknown sitemap type %q", args[0])
			}
			descs = []sitemap.Descriptor{d}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tINCLUDED\tFREQUENCY\tPRIORITY")
		for _, d := range descs {
			ts, err := a.Settings.TypeSettings(cmd.Context(), d.Key)
			if err != nil {
				return err
			}
			freq, prio := sitemap.Effective(d.Key, ts)
			fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", d.Key, ts.Included, describe(ts.Frequency, string(freq)), describe(ts.Priority, prio))
		}
		return w.Flush()
	},
}

var (
	setInclude   bool
	setFrequency string
	setPriority  string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set <type>",
	Short: "Store settings for one type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		update := settings.Update{Included: &setInclude}
		if flags.Changed("frequency") {
			update.Frequency = setFrequency
		}
		if flags.Changed("priority") {
			update.Priority = setPriority
		}
		if failed := settings.NewValidator().Validate(update); failed != nil {
			return fmt.Errorf("invalid settings: %s", formatFailures(failed))
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Dispatcher.Registry().Get(args[0])
		if err != nil {
			return fmt.Errorf("unknown sitemap type %q", args[0])
		}

		// flags left out keep the stored value
		ts, err := a.Settings.TypeSettings(cmd.Context(), d.Key)
		if err != nil {
			return err
		}
		if flags.Changed("include") {
			ts.Included = setInclude
		}
		if flags.Changed("frequency") {
			ts.Frequency = setFrequency
		}
		if flags.Changed("priority") {
			ts.Priority = setPriority
		}

		if err := a.Settings.SaveTypeSettings(cmd.Context(), d.Key, ts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved settings for %s\n", d.Key)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().BoolVar(&setInclude, "include", true, "list the type in the sitemap index")
	settingsSetCmd.Flags().StringVar(&setFrequency, "frequency", "", "change frequency (always, hourly, daily, weekly, monthly, yearly, never)")
	settingsSetCmd.Flags().StringVar(&setPriority, "priority", "", "priority between 0.0 and 1.0")

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
}

// describe shows the stored value and, when it differs, the value used.
func describe(stored, effective string) string {
	if stored == effective {
		return stored
	}
	if stored == "" {
		return effective + " (default)"
	}
	return fmt.Sprintf("%s (invalid %q)", effective, stored)
}

func formatFailures(failed map[string]string) string {
	parts := make([]string, 0, len(failed))
	for field, tag := range failed {
		parts = append(parts, field+": "+tag)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
