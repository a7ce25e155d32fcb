package cmd

import (
	"github.com/spf13/cobra"
)

func listingCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "listing <url>",
		Short:   "Fetch and parse a single listing",
		Example: `  craigslist-search listing https://seattle.craigslist.org/see/bik/d/trek-fx3/7712345678.html`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			d, err := eng.GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			printListingDetail(cmd.OutOrStdout(), d)
			return nil
		},
	}
}
