package repositories

import (
	"errors"
	"fmt"
	"time"

	"darna/internal/models"

	"gorm.io/gorm"
)

// CartStore is the storage of one cart flavour, keyed by its owner.
// Each owner has at most one entry per product.
type CartStore interface {
	Items(owner string) ([]models.CartEntry, error)
	// Add increments the quantity of an existing entry or inserts a new one.
	Add(owner string, productID uint, qty int) (models.CartEntry, error)
	SetQuantity(owner string, productID uint, qty int) error
	Remove(owner string, productIDs ...uint) error
	Clear(owner string) error
}

// GORMCartRepository stores authenticated users' carts, one row per (user, product).
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Items returns the user's entries in the order they were first added.
func (r *GORMCartRepository) Items(userID string) ([]models.CartEntry, error) {
	var rows []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("added_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart of user %s: %w", userID, err)
	}
	entries := make([]models.CartEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.CartEntry{ProductID: row.ProductID, Quantity: row.Quantity, AddedAt: row.AddedAt})
	}
	return entries, nil
}

// Add increments or inserts the (user, product) row.
func (r *GORMCartRepository) Add(userID string, productID uint, qty int) (models.CartEntry, error) {
	var item models.CartItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		switch {
		case err == nil:
			return r.increment(tx, &item, qty)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: qty, AddedAt: time.Now()}
		return tx.Create(&item).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another request inserted the row first.
		err = r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
				return err
			}
			return r.increment(tx, &item, qty)
		})
	}
	if err != nil {
		return models.CartEntry{}, fmt.Errorf("failed to add product %d to cart of user %s: %w", productID, userID, err)
	}
	return models.CartEntry{ProductID: item.ProductID, Quantity: item.Quantity, AddedAt: item.AddedAt}, nil
}

func (r *GORMCartRepository) increment(tx *gorm.DB, item *models.CartItem, qty int) error {
	if err := tx.Model(item).Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
		return err
	}
	return tx.First(item, item.ID).Error
}

// SetQuantity overwrites the quantity of an existing entry.
func (r *GORMCartRepository) SetQuantity(userID string, productID uint, qty int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %d: %w", productID, ErrNotFound)
	}
	return nil
}

// Remove deletes the entries of productIDs. Missing entries are ignored.
func (r *GORMCartRepository) Remove(userID string, productIDs ...uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := r.db.Where("user_id = ? AND product_id IN ?", userID, productIDs).Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}
	return nil
}

// Clear empties the user's cart.
func (r *GORMCartRepository) Clear(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
