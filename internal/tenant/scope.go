// Package tenant holds the gorm scopes that keep queries inside one company.
package tenant

import "gorm.io/gorm"

// Scope restricts a single-table query to companyID.
func Scope(companyID any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
