package services

import (
	"fmt"
	"strings"

	"darna/internal/models"
	"darna/internal/repositories"
)

// ProductService handles business logic related to shop products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves the products of a category, or all products when category is empty.
func (s *ProductService) ListProducts(category string) ([]models.Product, error) {
	return s.repo.List(strings.TrimSpace(category))
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	p, err := s.repo.GetByID(id)
	if repositories.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	return p, err
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.ID = 0
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	err := s.repo.Update(product)
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	return err
}

// DeleteProduct deletes a product by its ID. Carts holding it drop the line on their next load.
func (s *ProductService) DeleteProduct(id uint) error {
	err := s.repo.Delete(id)
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	return err
}
