package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req TermRequest) (*Response, error)
	Update(ctx context.Context, id string, req TermRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

// TermRequest carries the editable fields of a price term. Update replaces
// all of them, matching how a pricing editor submits a full row.
type TermRequest struct {
	Unit                 SellableUnit `json:"-"`
	AmountCents          *int64       `json:"amount_cents"`
	Currency             string       `json:"currency"`
	SuggestedAmountCents *int64       `json:"suggested_amount_cents"`
	Cadence              string       `json:"cadence"`
	FixedDurationMonths  *int32       `json:"fixed_duration_months"`
	DurationDisplayName  *string      `json:"duration_display_name"`
	IsRental             bool         `json:"is_rental"`
}

type ListRequest struct {
	UnitID        string
	FixedDuration *bool
	Rental        *bool
}

type Response struct {
	ID                              string    `json:"id"`
	OrganizationID                  string    `json:"organization_id"`
	UnitID                          string    `json:"unit_id"`
	UnitKind                        string    `json:"unit_kind"`
	ProductID                       string    `json:"product_id"`
	AmountCents                     *int64    `json:"amount_cents,omitempty"`
	Currency                        string    `json:"currency"`
	SuggestedAmountCents            *int64    `json:"suggested_amount_cents,omitempty"`
	Cadence                         *string   `json:"cadence,omitempty"`
	FixedDurationMonths             *int32    `json:"fixed_duration_months,omitempty"`
	DurationDisplayName             *string   `json:"duration_display_name,omitempty"`
	DurationDisplay                 string    `json:"duration_display"`
	FormattedDurationWithRecurrence string    `json:"formatted_duration_with_recurrence"`
	RecurrenceFormatted             string    `json:"recurrence_formatted,omitempty"`
	FormattedPrice                  string    `json:"formatted_price"`
	IsRental                        bool      `json:"is_rental"`
	IsDefaultRecurrence             bool      `json:"is_default_recurrence"`
	CreatedAt                       time.Time `json:"created_at"`
	UpdatedAt                       time.Time `json:"updated_at"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidUnit         = errors.New("invalid_unit")
	ErrDuplicateCadence    = errors.New("duplicate_cadence")
	ErrValidation          = errors.New("validation_failed")
	ErrNotFound            = errors.New("not_found")
)
