package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/priceterm/internal/cache"
	"github.com/smallbiznis/priceterm/internal/clock"
	"github.com/smallbiznis/priceterm/internal/config"
	"github.com/smallbiznis/priceterm/internal/duration"
	"github.com/smallbiznis/priceterm/internal/logger"
	"github.com/smallbiznis/priceterm/internal/migration"
	"github.com/smallbiznis/priceterm/internal/observability"
	"github.com/smallbiznis/priceterm/internal/orgcontext"
	"github.com/smallbiznis/priceterm/internal/priceterm"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/smallbiznis/priceterm/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

// importFile is the YAML document accepted by the import command.
type importFile struct {
	OrgID string       `yaml:"org_id"`
	Terms []importTerm `yaml:"terms"`
}

type importUnit struct {
	ID               string `yaml:"id"`
	Kind             string `yaml:"kind"`
	ProductID        string `yaml:"product_id"`
	Name             string `yaml:"name"`
	DefaultCadence   string `yaml:"default_cadence"`
	RecurringBilling bool   `yaml:"recurring_billing"`
}

type importTerm struct {
	Unit                 importUnit `yaml:"unit"`
	AmountCents          *int64     `yaml:"amount_cents"`
	Currency             string     `yaml:"currency"`
	SuggestedAmountCents *int64     `yaml:"suggested_amount_cents"`
	Cadence              string     `yaml:"cadence"`
	FixedDurationMonths  *int32     `yaml:"fixed_duration_months"`
	DurationDisplayName  *string    `yaml:"duration_display_name"`
	IsRental             bool       `yaml:"is_rental"`
}

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create price terms from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importPath)
		if err != nil {
			return err
		}
		defer f.Close()

		var svc pricetermdomain.Service
		app := fx.New(
			config.Module,
			logger.Module,
			observability.Module,
			db.Module,
			migration.Module,
			clock.Module,
			recurrence.Module,
			duration.Module,
			cache.Module,
			priceterm.Module,
			fx.Provide(registerSnowflake),
			fx.Populate(&svc),
			fx.NopLogger,
		)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := app.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = app.Stop(context.Background()) }()

		_, err = importTerms(ctx, svc, f, cmd.OutOrStdout())
		return err
	},
}

func init() {
	importCmd.Flags().StringVarP(&importPath, "file", "f", "", "YAML file with the terms to create")
	_ = importCmd.MarkFlagRequired("file")
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}

// importTerms creates every term in the document and reports each outcome.
// It keeps going after a rejected term and returns an error if any failed.
func importTerms(ctx context.Context, svc pricetermdomain.Service, r io.Reader, out io.Writer) (int, error) {
	var doc importFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode import file: %w", err)
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(doc.OrgID))
	if err != nil || orgID == 0 {
		return 0, pricetermdomain.ErrInvalidOrganization
	}
	ctx = orgcontext.WithOrgID(ctx, orgID)

	created := 0
	var errs []error
	for i, t := range doc.Terms {
		req, err := t.request()
		if err == nil {
			var resp *pricetermdomain.Response
			resp, err = svc.Create(ctx, req)
			if err == nil {
				created++
				if resp.IsDefaultRecurrence {
					fmt.Fprintf(out, "created %s  %s  (default)\n", resp.ID, resp.FormattedPrice)
				} else {
					fmt.Fprintf(out, "created %s  %s\n", resp.ID, resp.FormattedPrice)
				}
				continue
			}
		}
		fmt.Fprintf(out, "term %d: %v\n", i+1, err)
		errs = append(errs, fmt.Errorf("term %d: %w", i+1, err))
	}
	return created, errors.Join(errs...)
}

func (t importTerm) request() (pricetermdomain.TermRequest, error) {
	unitID, err := snowflake.ParseString(strings.TrimSpace(t.Unit.ID))
	if err != nil {
		return pricetermdomain.TermRequest{}, pricetermdomain.ErrInvalidUnit
	}

	unit := pricetermdomain.SellableUnit{
		ID:               unitID,
		Kind:             pricetermdomain.UnitKind(strings.ToLower(strings.TrimSpace(t.Unit.Kind))),
		Name:             t.Unit.Name,
		RecurringBilling: t.Unit.RecurringBilling,
	}
	if unit.Kind == "" {
		unit.Kind = pricetermdomain.UnitProduct
	}
	if raw := strings.TrimSpace(t.Unit.ProductID); raw != "" {
		productID, err := snowflake.ParseString(raw)
		if err != nil {
			return pricetermdomain.TermRequest{}, pricetermdomain.ErrInvalidUnit
		}
		unit.ProductID = productID
	}
	if raw := strings.ToLower(strings.TrimSpace(t.Unit.DefaultCadence)); raw != "" {
		unit.DefaultCadence = recurrence.Cadence(raw).Ptr()
	}

	return pricetermdomain.TermRequest{
		Unit:                 unit,
		AmountCents:          t.AmountCents,
		Currency:             t.Currency,
		SuggestedAmountCents: t.SuggestedAmountCents,
		Cadence:              t.Cadence,
		FixedDurationMonths:  t.FixedDurationMonths,
		DurationDisplayName:  t.DurationDisplayName,
		IsRental:             t.IsRental,
	}, nil
}
