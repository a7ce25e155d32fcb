// Package cmd implements the craigslist-search CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

var rootCmd = &cobra.Command{
	Use:   "craigslist-search",
	Short: "Search Craigslist listings",
	Long: "craigslist-search turns structured search requests into Craigslist result pages,\n" +
		"follows pagination and parses listings into structured records. It runs the\n" +
		"engine in-process, serves it as an HTTP API, or talks to a running server.",
	SilenceUsage: true,
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error onto the process exit status: 2 for invalid input,
// 3 for a removed listing, 4 for upstream failures and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case domain.IsValidation(err):
		return 2
	case domain.IsNotFound(err):
		return 3
	case domain.IsUpstream(err), domain.IsParse(err):
		return 4
	default:
		return 1
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		String("config", "", "config file path (defaults are used when empty)")
	rootCmd.PersistentFlags().
		String("server", "", "API server URL; runs the engine in-process when empty")
	rootCmd.PersistentFlags().
		String("output", outputTable, "output format (table, json)")
	rootCmd.PersistentFlags().
		String("log-level", "", "override logging.level from the config file")

	for _, name := range []string{"config", "server", "output", "log-level"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listingCmd())
	rootCmd.AddCommand(locationsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	viper.SetEnvPrefix("CLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func jsonOutput() bool {
	return viper.GetString("output") == outputJSON
}
