// Package recurrence holds the table of billing cadences a price term may use.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/priceterm/internal/config"
)

// Cadence is a named recurring billing interval such as "monthly".
type Cadence string

const (
	Monthly       Cadence = "monthly"
	Quarterly     Cadence = "quarterly"
	Biannually    Cadence = "biannually"
	Yearly        Cadence = "yearly"
	EveryTwoYears Cadence = "every_two_years"
)

// averageMonth is the mean Gregorian month (365.2425 days / 12).
const averageMonth = 2629746 * time.Second

var (
	ErrUnknownCadence = errors.New("unknown_cadence")
	ErrInvalidCatalog = errors.New("invalid_recurrence_catalog")
)

func (c Cadence) String() string { return string(c) }

// Ptr returns a pointer to c, for optional cadence fields.
func (c Cadence) Ptr() *Cadence { return &c }

type Entry struct {
	Cadence               Cadence
	Months                int
	LongIndicator         string
	ShortIndicator        string
	SinglePeriodIndicator string
}

// Catalog is immutable after New returns and safe for concurrent reads.
type Catalog struct {
	order   []Cadence
	entries map[Cadence]Entry
}

func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no cadences", ErrInvalidCatalog)
	}
	c := &Catalog{
		order:   make([]Cadence, 0, len(entries)),
		entries: make(map[Cadence]Entry, len(entries)),
	}
	for _, e := range entries {
		e.Cadence = normalize(string(e.Cadence))
		if e.Cadence == "" {
			return nil, fmt.Errorf("%w: empty cadence name", ErrInvalidCatalog)
		}
		if _, dup := c.entries[e.Cadence]; dup {
			return nil, fmt.Errorf("%w: duplicate cadence %q", ErrInvalidCatalog, e.Cadence)
		}
		if e.Months <= 0 {
			return nil, fmt.Errorf("%w: %s months must be positive", ErrInvalidCatalog, e.Cadence)
		}
		if e.LongIndicator == "" || e.ShortIndicator == "" || e.SinglePeriodIndicator == "" {
			return nil, fmt.Errorf("%w: %s indicators are required", ErrInvalidCatalog, e.Cadence)
		}
		c.order = append(c.order, e.Cadence)
		c.entries[e.Cadence] = e
	}
	return c, nil
}

// FromConfig builds the catalog from the loaded recurrence table.
func FromConfig(cfg config.RecurrenceConfig) (*Catalog, error) {
	entries := make([]Entry, 0, len(cfg.Cadences))
	for _, row := range cfg.Cadences {
		entries = append(entries, Entry{
			Cadence:               Cadence(row.Name),
			Months:                row.Months,
			LongIndicator:         row.LongIndicator,
			ShortIndicator:        row.ShortIndicator,
			SinglePeriodIndicator: row.SinglePeriodIndicator,
		})
	}
	return New(entries)
}

// Default returns the built-in catalog. It panics if the built-in table is
// inconsistent, which can only happen through a code change.
func Default() *Catalog {
	c, err := FromConfig(config.DefaultRecurrenceConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// Allowed returns the cadences in configured order.
func (c *Catalog) Allowed() []Cadence {
	out := make([]Cadence, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) IsAllowed(cadence Cadence) bool {
	_, ok := c.entries[cadence]
	return ok
}

// Parse normalizes untrusted input and checks it against the catalog.
func (c *Catalog) Parse(raw string) (Cadence, error) {
	cadence := normalize(raw)
	if !c.IsAllowed(cadence) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCadence, raw)
	}
	return cadence, nil
}

func (c *Catalog) Lookup(cadence Cadence) (Entry, error) {
	e, ok := c.entries[cadence]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCadence, string(cadence))
	}
	return e, nil
}

func (c *Catalog) CycleMonths(cadence Cadence) (int, error) {
	e, err := c.Lookup(cadence)
	if err != nil {
		return 0, err
	}
	return e.Months, nil
}

func (c *Catalog) LongIndicator(cadence Cadence) (string, error) {
	e, err := c.Lookup(cadence)
	if err != nil {
		return "", err
	}
	return e.LongIndicator, nil
}

func (c *Catalog) ShortIndicator(cadence Cadence) (string, error) {
	e, err := c.Lookup(cadence)
	if err != nil {
		return "", err
	}
	return e.ShortIndicator, nil
}

func (c *Catalog) SinglePeriodIndicator(cadence Cadence) (string, error) {
	e, err := c.Lookup(cadence)
	if err != nil {
		return "", err
	}
	return e.SinglePeriodIndicator, nil
}

// Duration is the length of one cycle measured in average months.
func (c *Catalog) Duration(cadence Cadence) (time.Duration, error) {
	months, err := c.CycleMonths(cadence)
	if err != nil {
		return 0, err
	}
	return time.Duration(months) * averageMonth, nil
}

// MustLookup is for formatting paths where every cadence has already passed
// validation. An unknown cadence there is a programming error.
func (c *Catalog) MustLookup(cadence Cadence) Entry {
	e, err := c.Lookup(cadence)
	if err != nil {
		panic(err)
	}
	return e
}

func (c *Catalog) MustCycleMonths(cadence Cadence) int {
	return c.MustLookup(cadence).Months
}

func (c *Catalog) MustShortIndicator(cadence Cadence) string {
	return c.MustLookup(cadence).ShortIndicator
}

func (c *Catalog) MustLongIndicator(cadence Cadence) string {
	return c.MustLookup(cadence).LongIndicator
}

func normalize(raw string) Cadence {
	return Cadence(strings.ToLower(strings.TrimSpace(raw)))
}
