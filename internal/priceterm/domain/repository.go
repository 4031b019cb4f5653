package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"gorm.io/gorm"
)

type ListFilter struct {
	UnitID        snowflake.ID
	FixedDuration *bool
	Rental        *bool
}

type Repository interface {
	Save(ctx context.Context, db *gorm.DB, term *PriceTerm) error
	FindActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*PriceTerm, error)
	FindActiveByCadence(ctx context.Context, db *gorm.DB, orgID, unitID snowflake.ID, cadence *recurrence.Cadence) (*PriceTerm, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter) ([]PriceTerm, error)
	SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	InsertVersion(ctx context.Context, db *gorm.DB, version *PriceTermVersion) error
	ListVersions(ctx context.Context, db *gorm.DB, orgID, termID snowflake.ID) ([]PriceTermVersion, error)
}

// CommitEvent describes one committed change to a price term.
type CommitEvent struct {
	OrgID     snowflake.ID
	TermID    snowflake.ID
	UnitID    snowflake.ID
	ProductID snowflake.ID
	Event     VersionEvent
}

//go:generate mockgen -destination=mock/mock_notifier.go -package=mock . Notifier

// Notifier receives one event per committed change, after the transaction commits.
type Notifier interface {
	PriceTermCommitted(ctx context.Context, event CommitEvent) error
}
