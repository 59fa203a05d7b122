package handlers

import (
	"darna/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Set holds every handler of the API.
type Set struct {
	Auth         *AuthHandler
	Products     *ProductHandler
	Catalog      *CatalogHandler
	Cart         *CartHandler
	Reservations *ReservationHandler
	Ratings      *RatingHandler
	Promotions   *PromotionHandler
}

// Register mounts the API on router. Admin routes live under /admin.
func (s Set) Register(router fiber.Router, guards middleware.Guards) {
	s.Auth.RegisterRoutes(router)
	s.Catalog.RegisterRoutes(router)
	s.Products.RegisterRoutes(router, guards)
	s.Ratings.RegisterRoutes(router, guards)
	s.Promotions.RegisterRoutes(router)
	s.Cart.RegisterRoutes(router, guards)
	s.Reservations.RegisterRoutes(router, guards)

	admin := router.Group("/admin", guards.Admin)
	s.Catalog.RegisterAdminRoutes(admin)
	s.Reservations.RegisterAdminRoutes(admin)
	s.Promotions.RegisterAdminRoutes(admin)
}
