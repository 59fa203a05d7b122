package services

import (
	"fmt"
	"strings"
	"time"

	"darna/internal/cache"
	"darna/internal/models"
	"darna/internal/repositories"
)

// PromotionService looks up checkout discount codes.
type PromotionService struct {
	repo  repositories.PromotionRepository
	codes *cache.TTLCache[models.Promotion]
	now   func() time.Time
}

// NewPromotionService creates a new PromotionService caching codes for ttl.
func NewPromotionService(repo repositories.PromotionRepository, ttl time.Duration) *PromotionService {
	return &PromotionService{
		repo:  repo,
		codes: cache.New[models.Promotion](ttl),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for the validity window.
func (s *PromotionService) WithClock(now func() time.Time) *PromotionService {
	s.now = now
	return s
}

// Lookup returns the promotion for code if it is active right now. Codes are case-insensitive.
func (s *PromotionService) Lookup(code string) (*models.Promotion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrPromotionNotFound
	}

	promo, ok := s.codes.Get(code)
	if !ok {
		p, err := s.repo.GetByCode(code)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, fmt.Errorf("%w: '%s'", ErrPromotionNotFound, code)
			}
			return nil, err
		}
		promo = *p
		s.codes.Set(code, promo)
	}

	if !promo.Active {
		return nil, fmt.Errorf("%w: '%s'", ErrPromotionNotFound, code)
	}
	now := s.now()
	if now.Before(promo.StartDate) {
		return nil, fmt.Errorf("%w: '%s'", ErrPromotionNotStarted, code)
	}
	if now.After(promo.EndDate) {
		return nil, fmt.Errorf("%w: '%s'", ErrPromotionExpired, code)
	}
	return &promo, nil
}

// Create stores a new promotion code.
func (s *PromotionService) Create(p *models.Promotion) error {
	p.ID = 0
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := s.repo.Create(p); err != nil {
		if repositories.IsDuplicate(err) {
			return fmt.Errorf("%w: '%s'", ErrDuplicatePromotion, p.Code)
		}
		return err
	}
	s.codes.Delete(p.Code)
	return nil
}
