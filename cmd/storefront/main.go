package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	// Prices go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd := &cobra.Command{
		Use:     "storefront",
		Short:   "Online storefront API",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
