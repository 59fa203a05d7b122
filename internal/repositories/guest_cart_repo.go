package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darna/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMGuestCartRepository stores each guest cart as one JSON array of
// {product_id, quantity, added_at}. Writes overwrite the whole array.
type GORMGuestCartRepository struct {
	db *gorm.DB
}

// NewGORMGuestCartRepository creates a new instance of GORMGuestCartRepository.
func NewGORMGuestCartRepository(db *gorm.DB) *GORMGuestCartRepository {
	return &GORMGuestCartRepository{db: db}
}

func (r *GORMGuestCartRepository) load(tx *gorm.DB, guestID string) ([]models.CartEntry, error) {
	var cart models.GuestCart
	err := tx.First(&cart, "guest_id = ?", guestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.CartEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := []models.CartEntry{}
	if cart.Items == "" {
		return entries, nil
	}
	if err := json.Unmarshal([]byte(cart.Items), &entries); err != nil {
		// A corrupt array is treated as an empty cart and overwritten on the next write.
		return []models.CartEntry{}, nil
	}
	return entries, nil
}

func (r *GORMGuestCartRepository) save(tx *gorm.DB, guestID string, entries []models.CartEntry) error {
	body, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	cart := models.GuestCart{GuestID: guestID, Items: string(body), UpdatedAt: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&cart).Error
}

func (r *GORMGuestCartRepository) mutate(guestID string, fn func([]models.CartEntry) ([]models.CartEntry, error)) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entries, err := r.load(tx, guestID)
		if err != nil {
			return err
		}
		entries, err = fn(entries)
		if err != nil {
			return err
		}
		return r.save(tx, guestID, entries)
	})
}

// Items returns the guest's entries in insertion order.
func (r *GORMGuestCartRepository) Items(guestID string) ([]models.CartEntry, error) {
	entries, err := r.load(r.db, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart %s: %w", guestID, err)
	}
	return entries, nil
}

// Add increments or appends the product's entry.
func (r *GORMGuestCartRepository) Add(guestID string, productID uint, qty int) (models.CartEntry, error) {
	var result models.CartEntry
	err := r.mutate(guestID, func(entries []models.CartEntry) ([]models.CartEntry, error) {
		for i := range entries {
			if entries[i].ProductID == productID {
				entries[i].Quantity += qty
				result = entries[i]
				return entries, nil
			}
		}
		result = models.CartEntry{ProductID: productID, Quantity: qty, AddedAt: time.Now()}
		return append(entries, result), nil
	})
	if err != nil {
		return models.CartEntry{}, fmt.Errorf("failed to add product %d to guest cart %s: %w", productID, guestID, err)
	}
	return result, nil
}

// SetQuantity overwrites the quantity of an existing entry.
func (r *GORMGuestCartRepository) SetQuantity(guestID string, productID uint, qty int) error {
	err := r.mutate(guestID, func(entries []models.CartEntry) ([]models.CartEntry, error) {
		for i := range entries {
			if entries[i].ProductID == productID {
				entries[i].Quantity = qty
				return entries, nil
			}
		}
		return nil, fmt.Errorf("cart item for product %d: %w", productID, ErrNotFound)
	})
	if err != nil {
		return fmt.Errorf("failed to update guest cart %s: %w", guestID, err)
	}
	return nil
}

// Remove drops the entries of productIDs.
func (r *GORMGuestCartRepository) Remove(guestID string, productIDs ...uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	drop := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	err := r.mutate(guestID, func(entries []models.CartEntry) ([]models.CartEntry, error) {
		kept := entries[:0]
		for _, e := range entries {
			if !drop[e.ProductID] {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove from guest cart %s: %w", guestID, err)
	}
	return nil
}

// Clear empties the guest cart.
func (r *GORMGuestCartRepository) Clear(guestID string) error {
	if err := r.db.Delete(&models.GuestCart{}, "guest_id = ?", guestID).Error; err != nil {
		return fmt.Errorf("failed to clear guest cart %s: %w", guestID, err)
	}
	return nil
}
