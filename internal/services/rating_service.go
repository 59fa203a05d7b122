package services

import (
	"fmt"
	"math"
	"strings"

	"darna/internal/models"
	"darna/internal/repositories"
)

// RatingService records product ratings, one per user and product.
type RatingService struct {
	repo     repositories.RatingRepository
	products repositories.ProductRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(repo repositories.RatingRepository, products repositories.ProductRepository) *RatingService {
	return &RatingService{repo: repo, products: products}
}

// Rate stores a user's rating of a product.
func (s *RatingService) Rate(userID string, productID uint, rating int, comment string) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.products.GetByID(productID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
		}
		return nil, err
	}

	exists, err := s.repo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateRating, productID)
	}

	r := &models.Rating{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.repo.Create(r); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRating, productID)
		}
		return nil, err
	}
	return r, nil
}

// Summary returns the average (two decimals) and count of a product's ratings.
func (s *RatingService) Summary(productID uint) (models.RatingSummary, error) {
	sum, err := s.repo.Summary(productID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	sum.ProductID = productID
	sum.Average = math.Round(sum.Average*100) / 100
	return sum, nil
}

// RatedProducts returns the ids of the products userID has rated.
func (s *RatingService) RatedProducts(userID string) ([]uint, error) {
	ids, err := s.repo.ProductIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
