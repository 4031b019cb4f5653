package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/spf13/cobra"
)

var cadencesCmd = &cobra.Command{
	Use:   "cadences",
	Short: "List the billing cadences in the recurrence catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		return printCadences(cmd.OutOrStdout(), catalog)
	},
}

func printCadences(out io.Writer, catalog *recurrence.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CADENCE\tMONTHS\tLONG\tSHORT\tSINGLE PERIOD")
	for _, cadence := range catalog.Allowed() {
		entry := catalog.MustLookup(cadence)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			entry.Cadence,
			entry.Months,
			entry.LongIndicator,
			entry.ShortIndicator,
			entry.SinglePeriodIndicator,
		)
	}
	return w.Flush()
}
