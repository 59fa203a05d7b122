package handlers

import (
	"darna/internal/i18n"
	"darna/internal/middleware"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RatingHandler handles product ratings.
type RatingHandler struct {
	service  *services.RatingService
	validate *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service *services.RatingService) *RatingHandler {
	return &RatingHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the rating routes. Rating needs a registered account.
func (h *RatingHandler) RegisterRoutes(router fiber.Router, guards middleware.Guards) {
	router.Post("/products/:id/ratings", guards.User, h.HandleRate)
	router.Get("/products/:id/ratings/summary", h.HandleSummary)
	router.Get("/ratings/mine", guards.User, h.HandleMine)
}

// RateRequest is the body of POST /products/:id/ratings.
type RateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// HandleRate records the caller's rating of a product.
func (h *RatingHandler) HandleRate(c *fiber.Ctx) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	rating, err := h.service.Rate(middleware.CurrentIdentity(c).UserID, productID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleSummary returns the average and count of a product's ratings.
func (h *RatingHandler) HandleSummary(c *fiber.Ctx) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	summary, err := h.service.Summary(productID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// HandleMine lists the ids of the products the caller has rated.
func (h *RatingHandler) HandleMine(c *fiber.Ctx) error {
	ids, err := h.service.RatedProducts(middleware.CurrentIdentity(c).UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"rated_products": ids})
}
