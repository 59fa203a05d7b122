package repositories

import (
	"fmt"
	"time"

	"darna/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftRepository stores the booking form prefill of each cart owner.
type DraftRepository interface {
	Get(owner string) (*models.BookingDraft, error)
	Save(owner, payload string) (*models.BookingDraft, error)
	Delete(owner string) error
}

// GORMDraftRepository is a GORM implementation of DraftRepository.
type GORMDraftRepository struct {
	db *gorm.DB
}

// NewGORMDraftRepository creates a new instance of GORMDraftRepository.
func NewGORMDraftRepository(db *gorm.DB) *GORMDraftRepository {
	return &GORMDraftRepository{db: db}
}

func (r *GORMDraftRepository) Get(owner string) (*models.BookingDraft, error) {
	var d models.BookingDraft
	if err := r.db.First(&d, "owner_key = ?", owner).Error; err != nil {
		return nil, translate(err, "booking draft of %s", owner)
	}
	return &d, nil
}

func (r *GORMDraftRepository) Save(owner, payload string) (*models.BookingDraft, error) {
	d := models.BookingDraft{OwnerKey: owner, Payload: payload, UpdatedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&d).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save booking draft: %w", err)
	}
	return &d, nil
}

// Delete removes the draft; a missing draft is not an error.
func (r *GORMDraftRepository) Delete(owner string) error {
	if err := r.db.Delete(&models.BookingDraft{}, "owner_key = ?", owner).Error; err != nil {
		return fmt.Errorf("failed to delete booking draft: %w", err)
	}
	return nil
}
