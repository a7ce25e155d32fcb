package cmd

import (
	"github.com/spf13/cobra"
)

func locationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations [filter]",
		Short: "List supported locations",
		Long:  "Lists the location codes accepted by --location, optionally filtered by code or name.",
		Example: `  craigslist-search locations
  craigslist-search locations wa`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			locs, err := eng.ListLocations(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), locs)
			}
			printLocations(cmd.OutOrStdout(), locs)
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [filter]",
		Short: "List supported categories",
		Long:  "Lists the category codes accepted by --category, optionally filtered by code or name.",
		Example: `  craigslist-search categories
  craigslist-search categories housing`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			cats, err := eng.ListCategories(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			printCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
