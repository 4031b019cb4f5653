package rls

import (
	"strconv"

	"gorm.io/gorm"
)

// WithTenant scopes the current transaction to one organization for the
// price_terms row-level security policies. It is a no-op outside postgres.
func WithTenant(tx *gorm.DB, tenantID int64) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(
		"SELECT set_config('app.current_org_id', ?, true)",
		strconv.FormatInt(tenantID, 10),
	).Error
}
