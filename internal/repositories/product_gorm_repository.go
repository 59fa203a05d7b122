package repositories

import (
	"fmt"

	"darna/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves live products, newest first, optionally restricted to one category.
func (r *GORMProductRepository) List(category string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	q := r.db.Order("created_at DESC, id DESC")
	if category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID. Deleted products are not found.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product with ID %d", id)
	}
	return &product, nil
}

// GetByIDs retrieves the live products among ids. Missing ids are simply absent from the result.
func (r *GORMProductRepository) GetByIDs(ids []uint) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	// Save upserts, so existence is checked first.
	var existing models.Product
	if err := r.db.Select("id", "created_at").First(&existing, "id = ?", product.ID).Error; err != nil {
		return translate(err, "product with ID %d for update", product.ID)
	}
	product.CreatedAt = existing.CreatedAt
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d for deletion: %w", id, ErrNotFound)
	}
	return nil
}
