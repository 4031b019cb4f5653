package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/smallbiznis/priceterm/internal/duration"
	"github.com/smallbiznis/priceterm/internal/money"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/priceterm/format"
	"github.com/smallbiznis/priceterm/internal/priceterm/validation"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/spf13/cobra"
)

type describeOptions struct {
	cadence   string
	months    int32
	name      string
	amount    int64
	hasAmount bool
	currency  string
	owner     string
	tier      bool
	recurring bool
}

var describeOpts describeOptions

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Validate a price term and print how it is shown to buyers",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		opts := describeOpts
		opts.hasAmount = cmd.Flags().Changed("amount")
		return describe(cmd.OutOrStdout(), catalog, opts)
	},
}

func init() {
	f := describeCmd.Flags()
	f.StringVar(&describeOpts.cadence, "cadence", "", "billing cadence (empty for one-time)")
	f.Int32Var(&describeOpts.months, "months", 0, "fixed commitment length in months (0 for ongoing)")
	f.StringVar(&describeOpts.name, "name", "", "custom duration display name")
	f.Int64Var(&describeOpts.amount, "amount", 0, "price in minor units")
	f.StringVar(&describeOpts.currency, "currency", "usd", "ISO currency code")
	f.StringVar(&describeOpts.owner, "owner", "", "product or tier name")
	f.BoolVar(&describeOpts.tier, "tier", false, "describe a tier term instead of a whole-product term")
	f.BoolVar(&describeOpts.recurring, "recurring", true, "product requires recurring billing")
}

func describe(out io.Writer, catalog *recurrence.Catalog, opts describeOptions) error {
	term := &pricetermdomain.PriceTerm{Currency: strings.TrimSpace(opts.currency)}
	if opts.hasAmount {
		amount := opts.amount
		term.AmountCents = &amount
	}
	if raw := strings.ToLower(strings.TrimSpace(opts.cadence)); raw != "" {
		term.Cadence = recurrence.Cadence(raw).Ptr()
	}
	if opts.months != 0 {
		months := opts.months
		term.FixedDurationMonths = &months
	}
	if name := strings.TrimSpace(opts.name); name != "" {
		term.DurationDisplayName = &name
	}

	pctx := pricetermdomain.ProductContext(opts.recurring)
	if opts.tier {
		pctx = pricetermdomain.TierContext()
	}

	failures := validation.New(catalog).Validate(term, pctx)
	if len(failures) > 0 {
		fmt.Fprintln(out, "invalid:")
		for _, f := range failures {
			fmt.Fprintf(out, "  - %s (%s)\n", f.String(), f.Kind)
		}
		return failures
	}

	calc := duration.New(catalog)
	presenter := format.New(catalog, calc, money.NewFormatter())

	if count, ok := presenter.OccurrenceCount(term); ok {
		fmt.Fprintf(out, "occurrences:         %d\n", count)
	}
	fmt.Fprintf(out, "duration:            %s\n", presenter.DurationDisplay(term))
	fmt.Fprintf(out, "duration (cadence):  %s\n", presenter.FormattedDurationWithRecurrence(term))
	fmt.Fprintf(out, "price:               %s\n", presenter.FormattedPriceWithDuration(term, pctx))
	fmt.Fprintf(out, "summary:             %s\n", presenter.SubscriptionSummary(term, opts.owner, pctx))
	return nil
}
