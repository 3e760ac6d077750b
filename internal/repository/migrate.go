package repository

import (
	"asesoria/internal/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables behind every repository in this
// package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&advisorProfileModel{},
		&relationshipModel{},
		&domain.Service{},
		&cartModel{},
		&billingCustomerModel{},
		&billingInvoiceModel{},
	)
}
