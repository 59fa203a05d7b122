package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"darna/internal/events"
	"darna/internal/i18n"
	"darna/internal/middleware"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 25 * time.Second

// CartHandler handles the cart of the calling user or guest.
type CartHandler struct {
	service  *services.CartService
	bus      *events.Bus
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, bus *events.Bus) *CartHandler {
	return &CartHandler{service: service, bus: bus, validate: validator.New()}
}

// RegisterRoutes registers the cart routes behind the owner guard.
func (h *CartHandler) RegisterRoutes(router fiber.Router, guards middleware.Guards) {
	cartRoutes := router.Group("/cart", guards.Owner)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Get("/summary", h.HandleSummary)
	cartRoutes.Get("/events", h.HandleEvents)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:product_id", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:product_id", h.HandleRemoveItem)
}

// AddItemRequest is the body of POST /cart/items. A missing quantity adds one.
type AddItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1"`
}

// SetQuantityRequest is the body of PATCH /cart/items/:product_id.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the cart lines with their products.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	lines, err := h.service.Load(middleware.CurrentOwner(c))
	if err != nil {
		return message(c, fiber.StatusServiceUnavailable, i18n.MsgLoadFailed, err)
	}
	return c.JSON(lines)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	entry, err := h.service.Add(middleware.CurrentOwner(c), req.ProductID, qty)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": i18n.T(lang(c), i18n.MsgCartUpdated),
		"item":    entry,
	})
}

// HandleSetQuantity overwrites the quantity of a line; zero removes it.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	productID, err := uintParam(c, "product_id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.service.SetQuantity(middleware.CurrentOwner(c), productID, req.Quantity); err != nil {
		return serviceError(c, err)
	}
	return message(c, fiber.StatusOK, i18n.MsgCartUpdated, nil)
}

// HandleRemoveItem removes a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, err := uintParam(c, "product_id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	if err := h.service.Remove(middleware.CurrentOwner(c), productID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(middleware.CurrentOwner(c)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSummary prices the cart for checkout, with an optional ?promo= code.
func (h *CartHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(middleware.CurrentOwner(c), c.Query("promo"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// HandleEvents streams the owner's cart.updated events as server-sent events.
func (h *CartHandler) HandleEvents(c *fiber.Ctx) error {
	owner := middleware.CurrentOwner(c)
	count, err := h.service.Count(owner)
	if err != nil {
		return message(c, fiber.StatusServiceUnavailable, i18n.MsgLoadFailed, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	updates, cancel := h.bus.Subscribe(events.ForOwner(owner.ID, events.CartUpdated))
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		initial := events.Event{Type: events.CartUpdated, Owner: owner.ID, Payload: fiber.Map{"item_count": count}, At: time.Now()}
		if writeEvent(w, initial) != nil {
			return
		}

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case e, ok := <-updates:
				if !ok {
					return
				}
				if err := writeEvent(w, e); err != nil {
					log.Printf("Cart event stream of %s closed: %v", owner.ID, err)
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return err
	}
	return w.Flush()
}
