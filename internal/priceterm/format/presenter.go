// Package format renders price terms for buyers and editors.
package format

import (
	"github.com/smallbiznis/priceterm/internal/duration"
	"github.com/smallbiznis/priceterm/internal/money"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/recurrence"
)

// Summary is the read model shown next to a price on a product page.
type Summary struct {
	ID                              string  `json:"id"`
	AmountCents                     *int64  `json:"price_cents"`
	Cadence                         *string `json:"recurrence"`
	RecurrenceFormatted             string  `json:"recurrence_formatted,omitempty"`
	DurationDisplay                 string  `json:"duration_display,omitempty"`
	FormattedDurationWithRecurrence string  `json:"formatted_duration_with_recurrence,omitempty"`
}

// Presenter formats validated terms. It panics if a term carries a cadence
// outside the catalog, since validation rejects those before they get here.
type Presenter struct {
	catalog *recurrence.Catalog
	calc    *duration.Calculator
	money   money.Formatter
}

func New(catalog *recurrence.Catalog, calc *duration.Calculator, formatter money.Formatter) *Presenter {
	return &Presenter{catalog: catalog, calc: calc, money: formatter}
}

func (p *Presenter) OccurrenceCount(term *pricetermdomain.PriceTerm) (int, bool) {
	return p.calc.OccurrenceCount(term.Cadence, term.FixedDurationMonths)
}

func (p *Presenter) DurationDisplay(term *pricetermdomain.PriceTerm) string {
	return duration.Display(term.FixedDurationMonths, term.DisplayName())
}

func (p *Presenter) FormattedDurationWithRecurrence(term *pricetermdomain.PriceTerm) string {
	return p.calc.FormattedWithRecurrence(term.Cadence, term.FixedDurationMonths, term.DisplayName())
}

func (p *Presenter) RecurrenceFormatted(term *pricetermdomain.PriceTerm) string {
	return p.calc.RecurrenceFormatted(term.Cadence, term.FixedDurationMonths)
}

// FormattedPriceWithDuration renders e.g. "$49.99/ month for 12 months".
// It returns "" when the term has no amount.
func (p *Presenter) FormattedPriceWithDuration(term *pricetermdomain.PriceTerm, ctx pricetermdomain.PricingContext) string {
	if term.AmountCents == nil {
		return ""
	}

	out := p.money.Format(*term.AmountCents, term.Currency, money.Options{
		NoCentsIfWhole: true,
		Symbol:         ctx.IncludeCurrencySymbol,
	})
	if term.Cadence != nil {
		out += p.catalog.MustShortIndicator(*term.Cadence)
	}
	if term.HasFixedDuration() {
		out += " for " + p.FormattedDurationWithRecurrence(term)
	}
	return out
}

// SubscriptionSummary renders "<owner> - <price with duration>". An empty
// owner name falls back to the context placeholder.
func (p *Presenter) SubscriptionSummary(term *pricetermdomain.PriceTerm, ownerName string, ctx pricetermdomain.PricingContext) string {
	if ownerName == "" {
		ownerName = pricetermdomain.SellableUnit{Kind: ctx.Kind}.DisplayName()
	}
	return ownerName + " - " + p.FormattedPriceWithDuration(term, ctx)
}

func (p *Presenter) PriceFormattedWithoutSymbol(term *pricetermdomain.PriceTerm) string {
	if term.AmountCents == nil {
		return ""
	}
	return p.money.Format(*term.AmountCents, term.Currency, money.Options{NoCentsIfWhole: true})
}

// SuggestedPriceFormattedWithoutSymbol returns nil when no suggestion is set.
func (p *Presenter) SuggestedPriceFormattedWithoutSymbol(term *pricetermdomain.PriceTerm) *string {
	if term.SuggestedAmountCents == nil {
		return nil
	}
	out := p.money.Format(*term.SuggestedAmountCents, term.Currency, money.Options{NoCentsIfWhole: true})
	return &out
}

func (p *Presenter) Summary(term *pricetermdomain.PriceTerm) Summary {
	s := Summary{
		ID:          term.ID.String(),
		AmountCents: term.AmountCents,
	}
	if term.Cadence == nil {
		return s
	}

	cadence := term.Cadence.String()
	s.Cadence = &cadence
	s.RecurrenceFormatted = p.RecurrenceFormatted(term)
	if term.HasFixedDuration() {
		s.DurationDisplay = p.DurationDisplay(term)
		s.FormattedDurationWithRecurrence = p.FormattedDurationWithRecurrence(term)
	}
	return s
}
