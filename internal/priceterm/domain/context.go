package domain

// PricingContext carries the owner capabilities the validator and presenter
// need, so product and tier terms share one type.
type PricingContext struct {
	Kind UnitKind
	// RequiresRecurringBilling makes a cadence from the catalog mandatory.
	RequiresRecurringBilling bool
	// AmountRequiredWithoutCadence reports a missing amount as a missing price
	// even for one-time terms.
	AmountRequiredWithoutCadence bool
	// IncludeCurrencySymbol controls the money prefix in formatted prices.
	IncludeCurrencySymbol bool
}

func ProductContext(recurringBilling bool) PricingContext {
	return PricingContext{
		Kind:                     UnitProduct,
		RequiresRecurringBilling: recurringBilling,
		IncludeCurrencySymbol:    true,
	}
}

func TierContext() PricingContext {
	return PricingContext{
		Kind:                         UnitTier,
		AmountRequiredWithoutCadence: true,
	}
}

// ContextFor derives the pricing context from the owning unit.
func ContextFor(unit SellableUnit) PricingContext {
	if unit.Kind == UnitTier {
		return TierContext()
	}
	return ProductContext(unit.RecurringBilling)
}
