// Package cmd defines the salespipe CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "salespipe",
	Short: "Sales analytics pipeline - ingest, validate, aggregate and enrich sales transactions",
	Long: `salespipe ingests a delimited sales transaction file, validates and
optionally filters the records, computes revenue analytics, enriches each
transaction with product metadata from an external catalog service, and
writes an enriched dataset plus a text report.

Example Usage:
  salespipe run                          # Run with config.yaml defaults
  salespipe run --region North           # Only North-region transactions
  salespipe run --interactive            # Prompt for filter criteria`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the configuration file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
