package services_test

import (
	"fmt"
	"testing"

	"darna/internal/models"
	"darna/internal/repositories"
	"darna/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, NameFr: "Savon noir", Price: 10.0, Stock: 100},
		{ID: 2, NameFr: "Brosse", Price: 20.0, Stock: 50},
	}

	mockRepo.On("List", "").Return(expectedProducts, nil).Once()
	mockRepo.On("List", "hygiene").Return(expectedProducts[:1], nil).Once()

	products, err := service.ListProducts("")
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)

	products, err = service.ListProducts("  hygiene ")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, NameFr: "Savon noir", Price: 10.0, Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("product 99: %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID(99)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{ID: 42, NameFr: "Nouveau produit", Price: 50.0, Stock: 20}

	// Test successful creation; the client cannot choose the id
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	assert.Zero(t, newProduct.ID)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	updatedProduct := &models.Product{ID: 1, NameFr: "Savon noir bio", Price: 12.0, Stock: 95}

	// Test successful update
	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	err := service.UpdateProduct(updatedProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test update of a missing product
	missing := &models.Product{ID: 99, NameFr: "Inconnu", Price: 1.0, Stock: 1}
	mockRepo.On("Update", missing).Return(fmt.Errorf("product 99 for update: %w", repositories.ErrNotFound)).Once()
	err = service.UpdateProduct(missing)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	// Test successful deletion
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	err := service.DeleteProduct(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (e.g., product not found)
	mockRepo.On("Delete", uint(99)).Return(fmt.Errorf("product 99 for deletion: %w", repositories.ErrNotFound)).Once()
	err = service.DeleteProduct(99)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}
