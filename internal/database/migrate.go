package database

import (
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// RunMigrations creates the two tables this subsystem owns. Schema
// management for the rest of the product lives elsewhere.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Recipe{},
		&models.ExternalMapping{},
	)
}
