package schema

import (
	"gorm.io/gorm"
)

// AllModels returns the status models for GORM AutoMigrate.
// The catalog table is not managed by GORM, see Project.
func AllModels() []any {
	return []any{
		&Cycle{},
		&Item{},
	}
}

// Migrate runs GORM AutoMigrate to create or update status tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
