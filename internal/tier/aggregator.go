// Package tier answers per-cadence questions about the price terms of one sellable unit.
package tier

import (
	"fmt"

	"github.com/smallbiznis/priceterm/internal/duration"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/priceterm/format"
	"github.com/smallbiznis/priceterm/internal/recurrence"
)

// Values is the per-cadence projection handed to pricing editors and
// checkout pages. Duration keys are only set for fixed-duration terms.
type Values struct {
	AmountCents          *int64  `json:"price_cents"`
	Price                string  `json:"price"`
	SuggestedAmountCents *int64  `json:"suggested_price_cents"`
	SuggestedPrice       *string `json:"suggested_price"`
	FixedDurationMonths  *int32  `json:"fixed_duration_months,omitempty"`
	DurationDisplayName  *string `json:"duration_display_name,omitempty"`
	DurationDisplay      *string `json:"duration_display,omitempty"`
}

type Aggregator struct {
	presenter *format.Presenter
	byCadence map[recurrence.Cadence]*pricetermdomain.PriceTerm
	oneTime   *pricetermdomain.PriceTerm
}

// New indexes terms by cadence. A unit owns at most one term per cadence, and
// at most one one-time term; anything else is rejected.
func New(presenter *format.Presenter, terms []pricetermdomain.PriceTerm) (*Aggregator, error) {
	a := &Aggregator{
		presenter: presenter,
		byCadence: make(map[recurrence.Cadence]*pricetermdomain.PriceTerm, len(terms)),
	}
	for i := range terms {
		term := &terms[i]
		if term.Cadence == nil {
			if a.oneTime != nil {
				return nil, fmt.Errorf("%w: one-time", pricetermdomain.ErrDuplicateCadence)
			}
			a.oneTime = term
			continue
		}
		if _, dup := a.byCadence[*term.Cadence]; dup {
			return nil, fmt.Errorf("%w: %s", pricetermdomain.ErrDuplicateCadence, *term.Cadence)
		}
		a.byCadence[*term.Cadence] = term
	}
	return a, nil
}

// ValuesByCadence returns one entry per cadence that has a term. With forEdit
// the raw display-name override is included so an editor can round-trip it.
func (a *Aggregator) ValuesByCadence(forEdit bool) map[recurrence.Cadence]Values {
	out := make(map[recurrence.Cadence]Values, len(a.byCadence))
	for cadence, term := range a.byCadence {
		v := Values{
			AmountCents:          term.AmountCents,
			Price:                a.presenter.PriceFormattedWithoutSymbol(term),
			SuggestedAmountCents: term.SuggestedAmountCents,
			SuggestedPrice:       a.presenter.SuggestedPriceFormattedWithoutSymbol(term),
		}
		if term.HasFixedDuration() {
			fixed := *term.FixedDurationMonths
			display := a.presenter.DurationDisplay(term)
			v.FixedDurationMonths = &fixed
			v.DurationDisplay = &display
			if forEdit && term.DurationDisplayName != nil {
				name := *term.DurationDisplayName
				v.DurationDisplayName = &name
			}
		}
		out[cadence] = v
	}
	return out
}

func (a *Aggregator) HasFixedDurationPricing() bool {
	if a.oneTime != nil && a.oneTime.HasFixedDuration() {
		return true
	}
	for _, term := range a.byCadence {
		if term.HasFixedDuration() {
			return true
		}
	}
	return false
}

func (a *Aggregator) Term(cadence recurrence.Cadence) (*pricetermdomain.PriceTerm, bool) {
	term, ok := a.byCadence[cadence]
	return term, ok
}

// OneTime returns the term sold without a cadence, if any.
func (a *Aggregator) OneTime() (*pricetermdomain.PriceTerm, bool) {
	return a.oneTime, a.oneTime != nil
}

func (a *Aggregator) DurationForCadence(cadence recurrence.Cadence) *int32 {
	term, ok := a.byCadence[cadence]
	if !ok || !term.HasFixedDuration() {
		return nil
	}
	fixed := *term.FixedDurationMonths
	return &fixed
}

func (a *Aggregator) DurationDisplayForCadence(cadence recurrence.Cadence) string {
	term, ok := a.byCadence[cadence]
	if !ok || !term.HasFixedDuration() {
		return duration.Ongoing
	}
	return a.presenter.DurationDisplay(term)
}
