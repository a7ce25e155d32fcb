package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

type searchFlags struct {
	location          string
	category          string
	minPrice          int
	maxPrice          int
	sort              string
	hasImage          bool
	postedToday       bool
	includeDuplicates bool
	distance          int
	postalCode        string
	maxResults        int
}

func searchCmd() *cobra.Command {
	return newSearchCmd(runSearch)
}

func newSearchCmd(run func(*cobra.Command, domain.SearchRequest) error) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search listings in one location and category",
		Long: "Builds the search URL, follows result pages up to --max-results and prints\n" +
			"the merged listings. Omitted flags take the configured defaults.",
		Example: `  craigslist-search search "trek road bike" --location seattle --category bik
  craigslist-search search couch --min-price 50 --max-price 300 --sort newest
  craigslist-search search --category apa --postal 98101 --distance 5 --output json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f.request(cmd, strings.Join(args, " ")))
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.location, "location", "l", "", "location code or name")
	fl.StringVarP(&f.category, "category", "c", "", "category code or name")
	fl.IntVar(&f.minPrice, "min-price", 0, "minimum price")
	fl.IntVar(&f.maxPrice, "max-price", 0, "maximum price")
	fl.StringVar(&f.sort, "sort", "", "sort order (relevance, newest, price_asc, price_desc)")
	fl.BoolVar(&f.hasImage, "has-image", false, "only listings with pictures")
	fl.BoolVar(&f.postedToday, "posted-today", false, "only listings posted today")
	fl.BoolVar(&f.includeDuplicates, "include-duplicates", false, "keep reposted duplicates")
	fl.IntVar(&f.distance, "distance", 0, "search radius in miles around --postal")
	fl.StringVar(&f.postalCode, "postal", "", "postal code for --distance")
	fl.IntVarP(&f.maxResults, "max-results", "n", 0, "maximum listings to return")

	return cmd
}

// request converts the flags, leaving unset numeric flags nil so the
// service can tell "absent" from zero.
func (f *searchFlags) request(cmd *cobra.Command, query string) domain.SearchRequest {
	req := domain.SearchRequest{
		Query:             query,
		Location:          f.location,
		Category:          f.category,
		Sort:              domain.SortMode(f.sort),
		HasImage:          f.hasImage,
		PostedToday:       f.postedToday,
		IncludeDuplicates: f.includeDuplicates,
		PostalCode:        f.postalCode,
		MaxResults:        f.maxResults,
	}
	if cmd.Flags().Changed("min-price") {
		req.MinPrice = &f.minPrice
	}
	if cmd.Flags().Changed("max-price") {
		req.MaxPrice = &f.maxPrice
	}
	if cmd.Flags().Changed("distance") {
		req.SearchDistance = &f.distance
	}
	return req
}

func runSearch(cmd *cobra.Command, req domain.SearchRequest) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	res, err := eng.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printSearchResult(cmd.OutOrStdout(), res)
	return nil
}
