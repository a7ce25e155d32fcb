// Package main is the entry point for craigslist-search.
package main

import (
	"os"

	"github.com/donaldgifford/craigslist-search/cmd/craigslist-search/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
