package database

import (
	"petnest_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema. Order respects foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.VerificationRequest{},
		&models.Pet{},
		&models.PetImage{},
		&models.Payment{},
		&models.Post{},
		&models.Message{},
	)
}
