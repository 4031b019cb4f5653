// Package cmd provides the CLI commands for priceterm.
package cmd

import (
	"github.com/smallbiznis/priceterm/internal/config"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/spf13/cobra"
)

var recurrenceFile string

var rootCmd = &cobra.Command{
	Use:   "priceterm",
	Short: "Inspect and manage subscription price terms",
	Long: `priceterm validates and formats subscription price terms.

Examples:
  priceterm cadences
  priceterm describe --cadence monthly --months 12 --amount 2400 --currency usd
  priceterm import --file terms.yml
  priceterm migrate`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&recurrenceFile, "recurrence", "", "recurrence config file for cadences and describe (default $RECURRENCE_CONFIG, then /etc/priceterm and .)")

	rootCmd.AddCommand(cadencesCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
}

func loadCatalog() (*recurrence.Catalog, error) {
	path := recurrenceFile
	if path == "" {
		path = config.Load().RecurrenceConfigPath
	}
	cfg, err := config.LoadRecurrence(path)
	if err != nil {
		return nil, err
	}
	return recurrence.FromConfig(cfg)
}
