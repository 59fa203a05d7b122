package handlers

import (
	"darna/internal/i18n"
	"darna/internal/middleware"
	"darna/internal/models"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for shop products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes need an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards middleware.Guards) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", guards.Admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", guards.Admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", guards.Admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists products newest first, filtered by ?category= when given.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.Query("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, product); !ok {
		return err
	}
	if err := h.service.CreateProduct(&product); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, product); !ok {
		return err
	}
	product.ID = id
	if err := h.service.UpdateProduct(&product); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
