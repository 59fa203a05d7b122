package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"darna/internal/i18n"
	"darna/internal/middleware"
	"darna/internal/models"
	"darna/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReservationHandler handles quotes, reservation submission, booking drafts and the admin follow-up.
type ReservationHandler struct {
	service *services.ReservationService
	quotes  *services.QuoteService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *services.ReservationService, quotes *services.QuoteService) *ReservationHandler {
	return &ReservationHandler{service: service, quotes: quotes}
}

// RegisterRoutes registers the customer-facing routes.
func (h *ReservationHandler) RegisterRoutes(router fiber.Router, guards middleware.Guards) {
	router.Post("/quotes", h.HandleQuote)
	router.Post("/reservations/:kind", guards.Owner, h.HandleSubmit)

	draftRoutes := router.Group("/drafts", guards.Owner)
	draftRoutes.Get("/", h.HandleGetDraft)
	draftRoutes.Put("/", h.HandleSaveDraft)
	draftRoutes.Delete("/", h.HandleDeleteDraft)
}

// RegisterAdminRoutes registers the reservation follow-up on an admin-guarded router.
func (h *ReservationHandler) RegisterAdminRoutes(admin fiber.Router) {
	reservationRoutes := admin.Group("/reservations")
	reservationRoutes.Get("/:kind", h.HandleList)
	reservationRoutes.Get("/:kind/export", h.HandleExport)
	reservationRoutes.Get("/:kind/:id", h.HandleGet)
	reservationRoutes.Patch("/:kind/:id/status", h.HandleUpdateStatus)
}

// HandleQuote prices a reservation form without storing anything.
func (h *ReservationHandler) HandleQuote(c *fiber.Ctx) error {
	var req services.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	quote, err := h.quotes.Quote(req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(quote)
}

// HandleSubmit validates, prices and stores a reservation of the :kind in the path.
func (h *ReservationHandler) HandleSubmit(c *fiber.Ctx) error {
	var req services.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	req.Kind = models.ReservationKind(c.Params("kind"))
	if key := c.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	owner := middleware.CurrentOwner(c)
	result, err := h.service.Submit(owner.ID, req)
	if err != nil {
		log.Printf("Error submitting %s reservation: %v", req.Kind, err)
		return serviceError(c, err)
	}

	status, key := fiber.StatusCreated, i18n.MsgReservationCreated
	if result.Duplicate {
		status, key = fiber.StatusOK, i18n.MsgReservationDuplicate
	}
	return c.Status(status).JSON(fiber.Map{
		"message":                i18n.T(lang(c), key),
		"reservation":            result.Reservation,
		"quote":                  result.Quote,
		"duplicate":              result.Duplicate,
		"redirect_after_seconds": result.RedirectAfterSeconds,
	})
}

// HandleGetDraft returns the caller's booking draft.
func (h *ReservationHandler) HandleGetDraft(c *fiber.Ctx) error {
	draft, err := h.service.Draft(middleware.CurrentOwner(c).ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"payload":    json.RawMessage(draft.Payload),
		"updated_at": draft.UpdatedAt,
	})
}

// HandleSaveDraft stores the request body as the caller's booking draft.
func (h *ReservationHandler) HandleSaveDraft(c *fiber.Ctx) error {
	draft, err := h.service.SaveDraft(middleware.CurrentOwner(c).ID, json.RawMessage(c.Body()))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"payload":    json.RawMessage(draft.Payload),
		"updated_at": draft.UpdatedAt,
	})
}

// HandleDeleteDraft discards the caller's booking draft.
func (h *ReservationHandler) HandleDeleteDraft(c *fiber.Ctx) error {
	if err := h.service.ClearDraft(middleware.CurrentOwner(c).ID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList lists the reservations of a kind, optionally filtered by ?status=.
func (h *ReservationHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.service.List(models.ReservationKind(c.Params("kind")), c.Query("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

// HandleGet returns one reservation.
func (h *ReservationHandler) HandleGet(c *fiber.Ctx) error {
	res, err := h.service.Get(models.ReservationKind(c.Params("kind")), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(res)
}

// HandleUpdateStatus moves a reservation to a new status.
func (h *ReservationHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return invalidBody(c, err)
	}
	res, err := h.service.UpdateStatus(models.ReservationKind(c.Params("kind")), c.Params("id"), updateData.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(res)
}

// HandleExport downloads the reservations of a kind as an Excel workbook.
func (h *ReservationHandler) HandleExport(c *fiber.Ctx) error {
	kind := models.ReservationKind(c.Params("kind"))
	file, err := h.service.Export(kind)
	if err != nil {
		return serviceError(c, err)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return serviceError(c, fmt.Errorf("failed to write workbook: %w", err))
	}

	filename := fmt.Sprintf("%s_reservations_%s.xlsx", kind, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
