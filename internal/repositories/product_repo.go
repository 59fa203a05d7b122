package repositories

import (
	"darna/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns live products, newest first. An empty category lists all of them.
	List(category string) ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
