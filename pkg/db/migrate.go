package db

import (
	"fmt"

	"darna/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses,
// including one reservations table per reservation kind.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Menage{},
		&models.ServiceType{},
		&models.ServiceOption{},
		&models.SecurityRole{},
		&models.Product{},
		&models.CartItem{},
		&models.GuestCart{},
		&models.ReservationRequest{},
		&models.BookingDraft{},
		&models.Rating{},
		&models.Promotion{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	for _, kind := range models.ReservationKinds {
		if err := gdb.Table(kind.Table()).AutoMigrate(&models.Reservation{}); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", kind.Table(), err)
		}
	}
	return nil
}
