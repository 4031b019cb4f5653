package validation

import (
	"strings"

	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
)

type Kind string

var (
	MissingRequiredField     Kind = "missing_required_field"
	InvalidAmount            Kind = "invalid_amount"
	InvalidDuration          Kind = "invalid_duration"
	InvalidCadence           Kind = "invalid_cadence"
	DurationShorterThanCycle Kind = "duration_shorter_than_cycle"
	MissingPrice             Kind = "missing_price"
)

// Failure is one field-scoped validation problem.
type Failure struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	if f.Field == "" || f.Field == FieldBase {
		return f.Message
	}
	return f.Field + " " + f.Message
}

// Failures is the full set of problems found on a term. A non-empty set is
// also an error that matches pricetermdomain.ErrValidation.
type Failures []Failure

func (fs Failures) Error() string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, f.String())
	}
	return pricetermdomain.ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (fs Failures) Unwrap() error {
	return pricetermdomain.ErrValidation
}

// Err returns nil for an empty set so callers can use the usual err != nil check.
func (fs Failures) Err() error {
	if len(fs) == 0 {
		return nil
	}
	return fs
}

func (fs Failures) Has(kind Kind) bool {
	for _, f := range fs {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// ForField returns the messages attached to field.
func (fs Failures) ForField(field string) []string {
	var out []string
	for _, f := range fs {
		if f.Field == field {
			out = append(out, f.Message)
		}
	}
	return out
}
