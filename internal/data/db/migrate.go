package db

import (
	types "github.com/yungbote/contacts-backend/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates missing tables and indexes. It never drops columns.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Contact{},
	)
}
