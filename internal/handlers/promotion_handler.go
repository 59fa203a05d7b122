package handlers

import (
	"darna/internal/models"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PromotionHandler handles promotion code lookups and creation.
type PromotionHandler struct {
	service  *services.PromotionService
	validate *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the public lookup.
func (h *PromotionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/promotions/:code", h.HandleLookup)
}

// RegisterAdminRoutes registers promotion creation on an admin-guarded router.
func (h *PromotionHandler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Post("/promotions", h.HandleCreate)
}

// HandleLookup returns a promotion if its code is valid right now.
func (h *PromotionHandler) HandleLookup(c *fiber.Ctx) error {
	promo, err := h.service.Lookup(c.Params("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(promo)
}

// HandleCreate adds a promotion code.
func (h *PromotionHandler) HandleCreate(c *fiber.Ctx) error {
	var promo models.Promotion
	if err := c.BodyParser(&promo); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, promo); !ok {
		return err
	}
	if err := h.service.Create(&promo); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(promo)
}
