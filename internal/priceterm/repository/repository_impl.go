package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricetermdomain.Repository {
	return &repo{}
}

// Save inserts the term, or updates every column when a row with its id exists.
func (r *repo) Save(ctx context.Context, db *gorm.DB, term *pricetermdomain.PriceTerm) error {
	return db.WithContext(ctx).Save(term).Error
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*pricetermdomain.PriceTerm, error) {
	var term pricetermdomain.PriceTerm
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

func (r *repo) FindActiveByCadence(ctx context.Context, db *gorm.DB, orgID, unitID snowflake.ID, cadence *recurrence.Cadence) (*pricetermdomain.PriceTerm, error) {
	stmt := db.WithContext(ctx).Where("org_id = ? AND unit_id = ?", orgID, unitID)
	if cadence == nil {
		stmt = stmt.Where("cadence IS NULL")
	} else {
		stmt = stmt.Where("cadence = ?", string(*cadence))
	}

	var term pricetermdomain.PriceTerm
	if err := stmt.Order("created_at ASC").First(&term).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter pricetermdomain.ListFilter) ([]pricetermdomain.PriceTerm, error) {
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.UnitID != 0 {
		stmt = stmt.Where("unit_id = ?", filter.UnitID)
	}
	if filter.FixedDuration != nil {
		if *filter.FixedDuration {
			stmt = stmt.Where("fixed_duration_months IS NOT NULL")
		} else {
			stmt = stmt.Where("fixed_duration_months IS NULL")
		}
	}
	if filter.Rental != nil {
		stmt = stmt.Where("is_rental = ?", *filter.Rental)
	}

	var items []pricetermdomain.PriceTerm
	if err := stmt.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SoftDelete stamps deleted_at; the row stays for the audit trail.
func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	result := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&pricetermdomain.PriceTerm{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pricetermdomain.ErrNotFound
	}
	return nil
}

func (r *repo) InsertVersion(ctx context.Context, db *gorm.DB, version *pricetermdomain.PriceTermVersion) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_term_versions (id, org_id, term_id, event, object, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		version.ID,
		version.OrgID,
		version.TermID,
		version.Event,
		version.Object,
		version.CreatedAt,
	).Error
}

func (r *repo) ListVersions(ctx context.Context, db *gorm.DB, orgID, termID snowflake.ID) ([]pricetermdomain.PriceTermVersion, error) {
	var items []pricetermdomain.PriceTermVersion
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, term_id, event, object, created_at
		 FROM price_term_versions WHERE org_id = ? AND term_id = ? ORDER BY created_at ASC, id ASC`,
		orgID,
		termID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
