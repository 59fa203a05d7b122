package repositories

import (
	"strings"

	"darna/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository defines the interface for promotion lookups.
type PromotionRepository interface {
	GetByCode(code string) (*models.Promotion, error)
	Create(p *models.Promotion) error
}

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
// Codes are stored upper-cased.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new instance of GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

func (r *GORMPromotionRepository) GetByCode(code string) (*models.Promotion, error) {
	var p models.Promotion
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.First(&p, "code = ?", code).Error; err != nil {
		return nil, translate(err, "promotion %s", code)
	}
	return &p, nil
}

func (r *GORMPromotionRepository) Create(p *models.Promotion) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := r.db.Create(p).Error; err != nil {
		return translate(err, "failed to create promotion %s", p.Code)
	}
	return nil
}
