package repositories

import (
	"errors"
	"fmt"
	"time"

	"darna/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepository defines the interface for reservation data access.
// Reservations live in one table per kind.
type ReservationRepository interface {
	// Create inserts r into its kind's table. A non-empty key is recorded in the
	// same transaction; a key already used fails with ErrDuplicate.
	// Create inserts r; a non-empty key is recorded for owner in the same transaction.
	Create(r *models.Reservation, owner, key string) error
	GetByKey(owner, key string) (*models.Reservation, error)
	GetByID(kind models.ReservationKind, id string) (*models.Reservation, error)
	List(kind models.ReservationKind, status string) ([]models.Reservation, error)
	UpdateStatus(kind models.ReservationKind, id string, status string) error
}

// GORMReservationRepository is a GORM implementation of ReservationRepository.
type GORMReservationRepository struct {
	db *gorm.DB
}

// NewGORMReservationRepository creates a new instance of GORMReservationRepository.
func NewGORMReservationRepository(db *gorm.DB) *GORMReservationRepository {
	return &GORMReservationRepository{db: db}
}

// Create inserts the reservation and its idempotency key atomically.
func (r *GORMReservationRepository) Create(res *models.Reservation, owner, key string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if key != "" {
			req := models.ReservationRequest{OwnerKey: owner, IdempotencyKey: key, Kind: res.Kind, ReservationID: res.ID, CreatedAt: time.Now()}
			if err := tx.Create(&req).Error; err != nil {
				return translate(err, "reservation request %s of %s", key, owner)
			}
		}
		if err := tx.Table(res.Kind.Table()).Create(res).Error; err != nil {
			return fmt.Errorf("failed to create %s reservation: %w", res.Kind, err)
		}
		return nil
	})
}

// GetByKey returns the reservation owner created under an idempotency key.
func (r *GORMReservationRepository) GetByKey(owner, key string) (*models.Reservation, error) {
	var req models.ReservationRequest
	if err := r.db.Where("owner_key = ? AND idempotency_key = ?", owner, key).Take(&req).Error; err != nil {
		return nil, translate(err, "reservation request %s of %s", key, owner)
	}
	return r.GetByID(req.Kind, req.ReservationID)
}

// GetByID returns one reservation of a kind.
func (r *GORMReservationRepository) GetByID(kind models.ReservationKind, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.Table(kind.Table()).Where("id = ?", id).Take(&res).Error; err != nil {
		return nil, translate(err, "%s reservation with ID %s", kind, id)
	}
	return &res, nil
}

// List returns the reservations of a kind, newest first, optionally filtered by status.
func (r *GORMReservationRepository) List(kind models.ReservationKind, status string) ([]models.Reservation, error) {
	q := r.db.Table(kind.Table()).Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	reservations := make([]models.Reservation, 0)
	if err := q.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s reservations: %w", kind, err)
	}
	return reservations, nil
}

// UpdateStatus sets the status of a reservation.
func (r *GORMReservationRepository) UpdateStatus(kind models.ReservationKind, id string, status string) error {
	res := r.db.Table(kind.Table()).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update %s reservation status: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s reservation with ID %s for status update: %w", kind, id, ErrNotFound)
	}
	return nil
}

// IsDuplicate reports whether err is a unique constraint rejection.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsNotFound reports whether err is a failed lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
