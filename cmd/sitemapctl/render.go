package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/romangod6/sitemapd/internal/sitemap"
)

var renderCmd = &cobra.Command{
	Use:   "render <index|xsl|type>",
	Short: "Print a sitemap document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.Dispatcher.Dispatch(cmd.Context(), args[0])
		switch {
		case errors.Is(err, sitemap.ErrNotFound):
			return fmt.Errorf("unknown sitemap type %q", args[0])
		case errors.Is(err, sitemap.ErrNotIncluded):
			return fmt.Errorf("sitemap type %q is excluded", args[0])
		case err != nil:
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), resp.Body)
		return nil
	},
}
