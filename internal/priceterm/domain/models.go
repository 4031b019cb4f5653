package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UnitKind string

var (
	UnitProduct UnitKind = "product"
	UnitTier    UnitKind = "tier"
)

// SellableUnit is a product, or a tier of a product, that carries its own price terms.
type SellableUnit struct {
	ID               snowflake.ID
	Kind             UnitKind
	ProductID        snowflake.ID
	Name             string
	DefaultCadence   *recurrence.Cadence
	RecurringBilling bool
}

// DisplayName falls back to a generic placeholder when the unit has no name.
func (u SellableUnit) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Kind == UnitTier {
		return "Tier"
	}
	return "Product"
}

// PriceTerm is one billing offer for one sellable unit.
type PriceTerm struct {
	ID                   snowflake.ID        `json:"id" gorm:"primaryKey"`
	OrgID                snowflake.ID        `json:"organization_id" gorm:"column:org_id;not null;index"`
	UnitID               snowflake.ID        `json:"unit_id" gorm:"column:unit_id;not null;index"`
	UnitKind             UnitKind            `json:"unit_kind" gorm:"type:text;not null"`
	ProductID            snowflake.ID        `json:"product_id" gorm:"column:product_id;not null;index"`
	AmountCents          *int64              `json:"amount_cents,omitempty" gorm:""`
	Currency             string              `json:"currency" gorm:"type:text;not null"`
	SuggestedAmountCents *int64              `json:"suggested_amount_cents,omitempty" gorm:""`
	Cadence              *recurrence.Cadence `json:"cadence,omitempty" gorm:"type:text"`
	FixedDurationMonths  *int32              `json:"fixed_duration_months,omitempty" gorm:"index"`
	DurationDisplayName  *string             `json:"duration_display_name,omitempty" gorm:"type:text"`
	IsRental             bool                `json:"is_rental" gorm:"not null;default:false"`
	CreatedAt            time.Time           `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time           `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt            gorm.DeletedAt      `json:"-" gorm:"index"`
}

func (PriceTerm) TableName() string { return "price_terms" }

func (p *PriceTerm) HasFixedDuration() bool {
	return p.FixedDurationMonths != nil
}

// IsRecurring reports whether the term bills on a cadence rather than once.
func (p *PriceTerm) IsRecurring() bool {
	return p.Cadence != nil
}

// IsDefaultRecurrence reports whether the term's cadence is the owning unit's configured default.
func (p *PriceTerm) IsDefaultRecurrence(defaultCadence *recurrence.Cadence) bool {
	if p.Cadence == nil || defaultCadence == nil {
		return false
	}
	return *p.Cadence == *defaultCadence
}

func (p *PriceTerm) IsBuy() bool {
	return !p.IsRental
}

func (p *PriceTerm) DisplayName() string {
	if p.DurationDisplayName == nil {
		return ""
	}
	return *p.DurationDisplayName
}

// SameCadence reports whether both cadences are absent or both equal.
func SameCadence(a, b *recurrence.Cadence) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type VersionEvent string

var (
	VersionCreate  VersionEvent = "create"
	VersionUpdate  VersionEvent = "update"
	VersionDestroy VersionEvent = "destroy"
)

// PriceTermVersion is the audit trail row written alongside each committed change.
type PriceTermVersion struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	OrgID     snowflake.ID   `json:"organization_id" gorm:"column:org_id;not null;index"`
	TermID    snowflake.ID   `json:"term_id" gorm:"column:term_id;not null;index"`
	Event     VersionEvent   `json:"event" gorm:"type:text;not null"`
	Object    datatypes.JSON `json:"object" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceTermVersion) TableName() string { return "price_term_versions" }
