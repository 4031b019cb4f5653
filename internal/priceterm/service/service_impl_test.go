package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/priceterm/internal/clock"
	"github.com/smallbiznis/priceterm/internal/duration"
	"github.com/smallbiznis/priceterm/internal/money"
	"github.com/smallbiznis/priceterm/internal/observability/metrics"
	"github.com/smallbiznis/priceterm/internal/orgcontext"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/priceterm/domain/mock"
	"github.com/smallbiznis/priceterm/internal/priceterm/format"
	"github.com/smallbiznis/priceterm/internal/priceterm/repository"
	"github.com/smallbiznis/priceterm/internal/priceterm/service"
	"github.com/smallbiznis/priceterm/internal/priceterm/validation"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(1001)

type fixture struct {
	svc      *service.Service
	db       *gorm.DB
	notifier *mock.MockNotifier
	clock    *clock.FakeClock
	ctx      context.Context
}

func setupTestDB(t *testing.T, clk clock.Clock) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{NowFunc: clk.Now})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&pricetermdomain.PriceTerm{}, &pricetermdomain.PriceTermVersion{}))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	db := setupTestDB(t, clk)
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	catalog := recurrence.Default()
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)

	svc := service.NewService(service.Params{
		DB:        db,
		Log:       zaptest.NewLogger(t),
		GenID:     node,
		Repo:      repository.Provide(),
		Validator: validation.New(catalog),
		Presenter: format.New(catalog, duration.New(catalog), money.NewFormatter()),
		Notifier:  notifier,
		Metrics:   metrics.NewNoop(),
		Clock:     clk,
	})

	return &fixture{
		svc:      svc,
		db:       db,
		notifier: notifier,
		clock:    clk,
		ctx:      orgcontext.WithOrgID(context.Background(), testOrgID),
	}
}

func tierUnit() pricetermdomain.SellableUnit {
	return pricetermdomain.SellableUnit{
		ID:        snowflake.ID(501),
		Kind:      pricetermdomain.UnitTier,
		ProductID: snowflake.ID(500),
		Name:      "Premium",
	}
}

func cents(v int64) *int64 { return &v }

func months(v int32) *int32 { return &v }

func countTerms(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&pricetermdomain.PriceTerm{}).Count(&n).Error)
	return n
}

func TestCreateTierTermNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	f.notifier.EXPECT().
		PriceTermCommitted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event pricetermdomain.CommitEvent) error {
			assert.Equal(t, testOrgID, event.OrgID)
			assert.Equal(t, snowflake.ID(501), event.UnitID)
			assert.Equal(t, snowflake.ID(500), event.ProductID)
			assert.Equal(t, pricetermdomain.VersionCreate, event.Event)
			return nil
		}).
		Times(1)

	resp, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:                tierUnit(),
		AmountCents:         cents(2400),
		Currency:            " usd ",
		Cadence:             " Monthly ",
		FixedDurationMonths: months(12),
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", resp.Currency)
	require.NotNil(t, resp.Cadence)
	assert.Equal(t, "monthly", *resp.Cadence)
	assert.Equal(t, "24/ month for 12 months", resp.FormattedPrice)
	assert.Equal(t, "12 months", resp.DurationDisplay)
	assert.Equal(t, "12 months", resp.FormattedDurationWithRecurrence)
	assert.Equal(t, " a month x 12", resp.RecurrenceFormatted)
	assert.Equal(t, f.clock.Now(), resp.CreatedAt)
	assert.Equal(t, int64(1), countTerms(t, f.db))
}

func TestCreateProductTermIncludesCurrencySymbol(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        pricetermdomain.SellableUnit{ID: snowflake.ID(900), Kind: pricetermdomain.UnitProduct, RecurringBilling: true},
		AmountCents: cents(4999),
		Currency:    "usd",
		Cadence:     "monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, "$49.99/ month", resp.FormattedPrice)
	assert.Equal(t, "900", resp.ProductID)
	assert.Equal(t, "Ongoing", resp.DurationDisplay)
}

func TestCreateRejectsInvalidTermWithoutPersisting(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:                tierUnit(),
		Currency:            "usd",
		Cadence:             "quarterly",
		FixedDurationMonths: months(2),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricetermdomain.ErrValidation))

	var failures validation.Failures
	require.True(t, errors.As(err, &failures))
	assert.True(t, failures.Has(validation.MissingRequiredField))
	assert.True(t, failures.Has(validation.MissingPrice))
	assert.True(t, failures.Has(validation.DurationShorterThanCycle))

	assert.Equal(t, int64(0), countTerms(t, f.db))
}

func TestCreateRejectsUnknownCadence(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(100),
		Currency:    "usd",
		Cadence:     "weekly",
	})
	var failures validation.Failures
	require.True(t, errors.As(err, &failures))
	assert.Equal(t, []string{"Please provide a valid payment option."}, failures.ForField(validation.FieldCadence))
}

func TestCreateRejectsDuplicateCadence(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	req := pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(1000),
		Currency:    "usd",
		Cadence:     "yearly",
	}
	_, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, pricetermdomain.ErrDuplicateCadence)
	assert.Equal(t, int64(1), countTerms(t, f.db))
}

func TestCreateSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	resp, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(1000),
		Currency:    "usd",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Cadence)
	assert.Equal(t, int64(1), countTerms(t, f.db))
}

func TestCreateRequiresOrganizationAndUnit(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), pricetermdomain.TermRequest{Unit: tierUnit()})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidOrganization)

	_, err = f.svc.Create(f.ctx, pricetermdomain.TermRequest{})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidUnit)

	_, err = f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: pricetermdomain.SellableUnit{ID: snowflake.ID(3), Kind: pricetermdomain.UnitTier},
	})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidUnit)
}

func TestUpdateDeleteWriteVersions(t *testing.T) {
	f := newFixture(t)

	var events []pricetermdomain.VersionEvent
	f.notifier.EXPECT().
		PriceTermCommitted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event pricetermdomain.CommitEvent) error {
			events = append(events, event.Event)
			return nil
		}).
		Times(3)

	created, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(1000),
		Currency:    "usd",
		Cadence:     "monthly",
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	name := "  Founders deal "
	updated, err := f.svc.Update(f.ctx, created.ID, pricetermdomain.TermRequest{
		Unit:                tierUnit(),
		AmountCents:         cents(1200),
		Currency:            "usd",
		Cadence:             "monthly",
		FixedDurationMonths: months(6),
		DurationDisplayName: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Founders deal", updated.DurationDisplay)
	assert.Equal(t, f.clock.Now(), updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, f.svc.Delete(f.ctx, created.ID))

	_, err = f.svc.Get(f.ctx, created.ID)
	assert.ErrorIs(t, err, pricetermdomain.ErrNotFound)

	versions, err := f.svc.Versions(f.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, pricetermdomain.VersionCreate, versions[0].Event)
	assert.Equal(t, pricetermdomain.VersionUpdate, versions[1].Event)
	assert.Equal(t, pricetermdomain.VersionDestroy, versions[2].Event)
	assert.Contains(t, string(versions[1].Object), `"fixed_duration_months":6`)

	assert.Equal(t, []pricetermdomain.VersionEvent{
		pricetermdomain.VersionCreate,
		pricetermdomain.VersionUpdate,
		pricetermdomain.VersionDestroy,
	}, events)
}

func TestUpdateRejectsInvalidChangeWithoutSaving(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	created, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(1000),
		Currency:    "usd",
		Cadence:     "yearly",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, created.ID, pricetermdomain.TermRequest{
		Unit:                tierUnit(),
		AmountCents:         cents(1000),
		Currency:            "usd",
		Cadence:             "yearly",
		FixedDurationMonths: months(6),
	})
	assert.ErrorIs(t, err, pricetermdomain.ErrValidation)

	got, err := f.svc.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FixedDurationMonths)
}

func TestUpdateRejectsMovingToTakenCadence(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	base := pricetermdomain.TermRequest{Unit: tierUnit(), AmountCents: cents(1000), Currency: "usd"}

	monthly := base
	monthly.Cadence = "monthly"
	_, err := f.svc.Create(f.ctx, monthly)
	require.NoError(t, err)

	yearly := base
	yearly.Cadence = "yearly"
	created, err := f.svc.Create(f.ctx, yearly)
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, created.ID, monthly)
	assert.ErrorIs(t, err, pricetermdomain.ErrDuplicateCadence)
}

func TestUpdateKeepsRecurringBillingRequirement(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	unit := pricetermdomain.SellableUnit{ID: 900, Kind: pricetermdomain.UnitProduct, RecurringBilling: true}
	created, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        unit,
		AmountCents: cents(1500),
		Currency:    "usd",
		Cadence:     "monthly",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, created.ID, pricetermdomain.TermRequest{
		Unit:        unit,
		AmountCents: cents(1500),
		Currency:    "usd",
	})
	require.ErrorIs(t, err, pricetermdomain.ErrValidation)
	var failures validation.Failures
	require.ErrorAs(t, err, &failures)
	assert.True(t, failures.Has(validation.InvalidCadence))

	got, err := f.svc.Get(f.ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cadence)
	assert.Equal(t, "monthly", *got.Cadence)
}

func TestUpdateRequiresOwningUnit(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	created, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit:        tierUnit(),
		AmountCents: cents(1000),
		Currency:    "usd",
		Cadence:     "monthly",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, created.ID, pricetermdomain.TermRequest{
		AmountCents: cents(1000),
		Currency:    "usd",
	})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidUnit)

	other := tierUnit()
	other.ID = 777
	_, err = f.svc.Update(f.ctx, created.ID, pricetermdomain.TermRequest{
		Unit:        other,
		AmountCents: cents(1000),
		Currency:    "usd",
		Cadence:     "monthly",
	})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidUnit)

	got, err := f.svc.Get(f.ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cadence)
	assert.Equal(t, "monthly", *got.Cadence)
}

func TestResponseMarksDefaultRecurrence(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	unit := tierUnit()
	unit.DefaultCadence = recurrence.Yearly.Ptr()

	monthly, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: unit, AmountCents: cents(1000), Currency: "usd", Cadence: "monthly",
	})
	require.NoError(t, err)
	assert.False(t, monthly.IsDefaultRecurrence)

	yearly, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: unit, AmountCents: cents(10000), Currency: "usd", Cadence: "yearly",
	})
	require.NoError(t, err)
	assert.True(t, yearly.IsDefaultRecurrence)
}

func TestUpdateAndDeleteUnknownTerm(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(f.ctx, "12345", pricetermdomain.TermRequest{})
	assert.ErrorIs(t, err, pricetermdomain.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, "12345"), pricetermdomain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(f.ctx, "not-an-id"), pricetermdomain.ErrInvalidID)
}

func TestListAndAggregate(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().PriceTermCommitted(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	_, err := f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: tierUnit(), AmountCents: cents(999), Currency: "usd", Cadence: "monthly", FixedDurationMonths: months(12),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: tierUnit(), AmountCents: cents(9900), Currency: "usd", Cadence: "yearly",
	})
	require.NoError(t, err)
	other := tierUnit()
	other.ID = snowflake.ID(777)
	_, err = f.svc.Create(f.ctx, pricetermdomain.TermRequest{
		Unit: other, AmountCents: cents(100), Currency: "usd", Cadence: "monthly",
	})
	require.NoError(t, err)

	all, err := f.svc.List(f.ctx, pricetermdomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fixed := true
	onlyFixed, err := f.svc.List(f.ctx, pricetermdomain.ListRequest{UnitID: "501", FixedDuration: &fixed})
	require.NoError(t, err)
	require.Len(t, onlyFixed, 1)
	assert.Equal(t, "9.99/ month for 12 months", onlyFixed[0].FormattedPrice)

	agg, err := f.svc.Aggregate(f.ctx, "501")
	require.NoError(t, err)
	assert.True(t, agg.HasFixedDurationPricing())
	assert.Equal(t, int32(12), *agg.DurationForCadence(recurrence.Monthly))
	assert.Equal(t, "12 months", agg.DurationDisplayForCadence(recurrence.Monthly))
	assert.Equal(t, "Ongoing", agg.DurationDisplayForCadence(recurrence.Yearly))
	assert.Len(t, agg.ValuesByCadence(false), 2)

	_, err = f.svc.List(f.ctx, pricetermdomain.ListRequest{UnitID: "abc"})
	assert.ErrorIs(t, err, pricetermdomain.ErrInvalidUnit)
}
