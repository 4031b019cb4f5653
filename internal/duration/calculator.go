// Package duration turns a cadence and an optional fixed commitment length
// into billed-occurrence counts and customer-facing text.
//
// Every function here is pure: the same inputs always give the same output.
package duration

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/priceterm/internal/recurrence"
)

// Ongoing describes a term without a fixed commitment.
const Ongoing = "Ongoing"

type template struct {
	singular string
	plural   string
}

// templates phrase the occurrence count per cadence. Cadences without an
// entry fall back to Display.
var templates = map[recurrence.Cadence]template{
	recurrence.Monthly:       {"month", "months"},
	recurrence.Quarterly:     {"quarter", "quarters"},
	recurrence.Biannually:    {"payment (6 months each)", "payments (6 months each)"},
	recurrence.Yearly:        {"year", "years"},
	recurrence.EveryTwoYears: {"payment (2 years each)", "payments (2 years each)"},
}

type Calculator struct {
	catalog *recurrence.Catalog
}

func New(catalog *recurrence.Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// OccurrenceCount returns how many charges fall within the fixed duration,
// counting a partial final cycle as a full one.
func (c *Calculator) OccurrenceCount(cadence *recurrence.Cadence, fixedMonths *int32) (int, bool) {
	if cadence == nil || fixedMonths == nil {
		return 0, false
	}
	months, err := c.catalog.CycleMonths(*cadence)
	if err != nil {
		return 0, false
	}
	total := int(*fixedMonths)
	return (total + months - 1) / months, true
}

// Display is the calendar description of a term: the custom name when set,
// otherwise "N month(s)" for fixed terms and "Ongoing" for open-ended ones.
func Display(fixedMonths *int32, customName string) string {
	if strings.TrimSpace(customName) != "" {
		return customName
	}
	if fixedMonths != nil {
		return pluralize(int(*fixedMonths), "month", "months")
	}
	return Ongoing
}

// FormattedWithRecurrence phrases a fixed term by the number of charges the
// buyer will see. The custom display name is only used when no fixed duration
// applies or the cadence has no template.
func (c *Calculator) FormattedWithRecurrence(cadence *recurrence.Cadence, fixedMonths *int32, customName string) string {
	if fixedMonths == nil {
		return Display(fixedMonths, customName)
	}
	count, ok := c.OccurrenceCount(cadence, fixedMonths)
	if !ok {
		return Display(fixedMonths, customName)
	}
	tpl, ok := templates[*cadence]
	if !ok {
		return Display(fixedMonths, customName)
	}
	return pluralize(count, tpl.singular, tpl.plural)
}

// RecurrenceFormatted is the compact " <long indicator> x N" label shown next
// to a price. The " x N" suffix is only added for fixed terms.
func (c *Calculator) RecurrenceFormatted(cadence *recurrence.Cadence, fixedMonths *int32) string {
	if cadence == nil {
		return ""
	}
	out := " " + c.catalog.MustLongIndicator(*cadence)
	if count, ok := c.OccurrenceCount(cadence, fixedMonths); ok {
		out += fmt.Sprintf(" x %d", count)
	}
	return out
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
