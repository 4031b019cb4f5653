// Package validation checks price terms before they are persisted or billed.
package validation

import (
	"fmt"

	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/recurrence"
)

const (
	FieldBase                 = "base"
	FieldAmount               = "amount_cents"
	FieldSuggestedAmount      = "suggested_amount_cents"
	FieldCurrency             = "currency"
	FieldCadence              = "cadence"
	FieldFixedDurationMonths  = "fixed_duration_months"
	msgBlank                  = "can't be blank"
	msgNegative               = "must be greater than or equal to 0"
	msgNotPositive            = "must be greater than 0"
	msgInvalidRecurrence      = "Invalid recurrence"
	msgInvalidPaymentOption   = "Please provide a valid payment option."
	msgMissingPriceForOptions = "Please provide a price for all selected payment options."
)

type Validator struct {
	catalog *recurrence.Catalog
}

func New(catalog *recurrence.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns every failure on term. An empty result means the term is billable.
func (v *Validator) Validate(term *pricetermdomain.PriceTerm, ctx pricetermdomain.PricingContext) Failures {
	var out Failures

	if term.AmountCents == nil {
		out = append(out, Failure{Field: FieldAmount, Kind: MissingRequiredField, Message: msgBlank})
	} else if *term.AmountCents < 0 {
		out = append(out, Failure{Field: FieldAmount, Kind: InvalidAmount, Message: msgNegative})
	}
	if term.SuggestedAmountCents != nil && *term.SuggestedAmountCents < 0 {
		out = append(out, Failure{Field: FieldSuggestedAmount, Kind: InvalidAmount, Message: msgNegative})
	}
	if term.Currency == "" {
		out = append(out, Failure{Field: FieldCurrency, Kind: MissingRequiredField, Message: msgBlank})
	}

	durationValid := true
	if term.FixedDurationMonths != nil && *term.FixedDurationMonths <= 0 {
		durationValid = false
		out = append(out, Failure{Field: FieldFixedDurationMonths, Kind: InvalidDuration, Message: msgNotPositive})
	}

	cadenceValid := term.Cadence != nil && v.catalog.IsAllowed(*term.Cadence)
	switch {
	case ctx.RequiresRecurringBilling && !cadenceValid:
		out = append(out, Failure{Field: FieldCadence, Kind: InvalidCadence, Message: invalidCadenceMessage(ctx)})
	case term.Cadence != nil && !cadenceValid:
		// Unknown cadences never reach the formatting code.
		out = append(out, Failure{Field: FieldCadence, Kind: InvalidCadence, Message: invalidCadenceMessage(ctx)})
	}

	if ctx.AmountRequiredWithoutCadence && term.AmountCents == nil {
		out = append(out, Failure{Field: FieldBase, Kind: MissingPrice, Message: msgMissingPriceForOptions})
	}

	if cadenceValid && durationValid && term.FixedDurationMonths != nil {
		cycle := v.catalog.MustCycleMonths(*term.Cadence)
		if int(*term.FixedDurationMonths) < cycle {
			out = append(out, Failure{
				Field:   FieldFixedDurationMonths,
				Kind:    DurationShorterThanCycle,
				Message: fmt.Sprintf("must be at least %d months for %s billing", cycle, *term.Cadence),
			})
		}
	}

	return out
}

func invalidCadenceMessage(ctx pricetermdomain.PricingContext) string {
	if ctx.Kind == pricetermdomain.UnitTier {
		return msgInvalidPaymentOption
	}
	return msgInvalidRecurrence
}
