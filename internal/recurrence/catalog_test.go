package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogEntries(t *testing.T) {
	c := Default()

	assert.Equal(t, []Cadence{Monthly, Quarterly, Biannually, Yearly, EveryTwoYears}, c.Allowed())

	for _, cadence := range c.Allowed() {
		months, err := c.CycleMonths(cadence)
		require.NoError(t, err)
		assert.Greater(t, months, 0, cadence)

		long, err := c.LongIndicator(cadence)
		require.NoError(t, err)
		assert.NotEmpty(t, long)

		short, err := c.ShortIndicator(cadence)
		require.NoError(t, err)
		assert.NotEmpty(t, short)

		single, err := c.SinglePeriodIndicator(cadence)
		require.NoError(t, err)
		assert.NotEmpty(t, single)
	}
}

func TestMonthlyIndicators(t *testing.T) {
	c := Default()

	long, _ := c.LongIndicator(Monthly)
	short, _ := c.ShortIndicator(Monthly)
	single, _ := c.SinglePeriodIndicator(Monthly)

	assert.Equal(t, "a month", long)
	assert.Equal(t, "/ month", short)
	assert.Equal(t, "1-month", single)
}

func TestCycleMonths(t *testing.T) {
	c := Default()
	cases := map[Cadence]int{
		Monthly:       1,
		Quarterly:     3,
		Biannually:    6,
		Yearly:        12,
		EveryTwoYears: 24,
	}
	for cadence, want := range cases {
		got, err := c.CycleMonths(cadence)
		require.NoError(t, err)
		assert.Equal(t, want, got, cadence)
	}
}

func TestUnknownCadence(t *testing.T) {
	c := Default()

	_, err := c.CycleMonths("whenever")
	assert.True(t, errors.Is(err, ErrUnknownCadence))

	_, err = c.LongIndicator("whenever")
	assert.ErrorIs(t, err, ErrUnknownCadence)
	_, err = c.ShortIndicator("")
	assert.ErrorIs(t, err, ErrUnknownCadence)
	_, err = c.SinglePeriodIndicator("weekly")
	assert.ErrorIs(t, err, ErrUnknownCadence)

	assert.Panics(t, func() { c.MustCycleMonths("whenever") })
	assert.False(t, c.IsAllowed("whenever"))
}

func TestParseNormalizes(t *testing.T) {
	c := Default()

	got, err := c.Parse("  Yearly ")
	require.NoError(t, err)
	assert.Equal(t, Yearly, got)

	_, err = c.Parse("fortnightly")
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestDuration(t *testing.T) {
	c := Default()

	d, err := c.Duration(Monthly)
	require.NoError(t, err)
	assert.Equal(t, 2629746*time.Second, d)

	d, err = c.Duration(Yearly)
	require.NoError(t, err)
	assert.Equal(t, 12*2629746*time.Second, d)
}

func TestNewRejectsBadTables(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = New([]Entry{{Cadence: "monthly", Months: 0, LongIndicator: "a", ShortIndicator: "b", SinglePeriodIndicator: "c"}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = New([]Entry{
		{Cadence: "monthly", Months: 1, LongIndicator: "a", ShortIndicator: "b", SinglePeriodIndicator: "c"},
		{Cadence: "Monthly", Months: 1, LongIndicator: "a", ShortIndicator: "b", SinglePeriodIndicator: "c"},
	})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = New([]Entry{{Cadence: "weekly", Months: 1, LongIndicator: "a week"}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestAllowedReturnsCopy(t *testing.T) {
	c := Default()
	allowed := c.Allowed()
	allowed[0] = "mutated"
	assert.Equal(t, Monthly, c.Allowed()[0])
}
