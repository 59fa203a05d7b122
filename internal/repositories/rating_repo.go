package repositories

import (
	"fmt"

	"darna/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	Create(rating *models.Rating) error
	Exists(userID string, productID uint) (bool, error)
	Summary(productID uint) (models.RatingSummary, error)
	ProductIDsByUser(userID string) ([]uint, error)
}

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{db: db}
}

// Create inserts a rating; the (product, user) unique index turns a second rating into ErrDuplicate.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if err := r.db.Create(rating).Error; err != nil {
		return translate(err, "rating of product %d by %s", rating.ProductID, rating.UserID)
	}
	return nil
}

func (r *GORMRatingRepository) Exists(userID string, productID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.Rating{}).Where("user_id = ? AND product_id = ?", userID, productID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check rating: %w", err)
	}
	return n > 0, nil
}

func (r *GORMRatingRepository) Summary(productID uint) (models.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to summarize ratings of product %d: %w", productID, err)
	}
	return models.RatingSummary{ProductID: productID, Average: row.Average, Count: row.Count}, nil
}

func (r *GORMRatingRepository) ProductIDsByUser(userID string) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.Model(&models.Rating{}).Where("user_id = ?", userID).Order("created_at, id").Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rated products: %w", err)
	}
	return ids, nil
}
