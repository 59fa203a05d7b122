package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"darna/internal/i18n"
	"darna/internal/repositories"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target error
	status int
	key    string
}

// Service errors in the order they are matched.
var errorMappings = []errorMapping{
	{services.ErrProductNotFound, fiber.StatusNotFound, i18n.MsgProductNotFound},
	{services.ErrServiceNotFound, fiber.StatusNotFound, i18n.MsgServiceNotFound},
	{services.ErrReservationNotFound, fiber.StatusNotFound, i18n.MsgNotFound},
	{services.ErrCartItemNotFound, fiber.StatusNotFound, i18n.MsgCartItemNotFound},
	{services.ErrDraftNotFound, fiber.StatusNotFound, i18n.MsgDraftNotFound},
	{services.ErrUnknownReservationKind, fiber.StatusNotFound, i18n.MsgUnknownKind},
	{services.ErrUnknownBucket, fiber.StatusBadRequest, i18n.MsgUnknownBucket},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, i18n.MsgInvalidStatus},
	{services.ErrInvalidQuantity, fiber.StatusBadRequest, i18n.MsgInvalidQuantity},
	{services.ErrInvalidRating, fiber.StatusBadRequest, i18n.MsgInvalidRating},
	{services.ErrInvalidDraft, fiber.StatusBadRequest, i18n.MsgInvalidDraft},
	{services.ErrInvalidQuote, fiber.StatusUnprocessableEntity, i18n.MsgReservationInvalid},
	{services.ErrPromotionNotFound, fiber.StatusNotFound, i18n.MsgPromoInvalid},
	{services.ErrPromotionExpired, fiber.StatusUnprocessableEntity, i18n.MsgPromoExpired},
	{services.ErrPromotionNotStarted, fiber.StatusUnprocessableEntity, i18n.MsgPromoNotStarted},
	{services.ErrDuplicateRating, fiber.StatusConflict, i18n.MsgDuplicateRating},
	{services.ErrDuplicatePromotion, fiber.StatusConflict, i18n.MsgConflict},
	{services.ErrIdempotencyKeyReused, fiber.StatusConflict, i18n.MsgConflict},
	{services.ErrUsernameTaken, fiber.StatusConflict, i18n.MsgAccountExists},
	{services.ErrEmailTaken, fiber.StatusConflict, i18n.MsgAccountExists},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, i18n.MsgLoginFailed},
	{repositories.ErrNotFound, fiber.StatusNotFound, i18n.MsgNotFound},
	{repositories.ErrDuplicate, fiber.StatusConflict, i18n.MsgConflict},
}

func lang(c *fiber.Ctx) string {
	return i18n.Lang(c.Get(fiber.HeaderAcceptLanguage))
}

// message replies with a localized message and an optional detail.
func message(c *fiber.Ctx, status int, key string, err error) error {
	body := fiber.Map{"message": i18n.T(lang(c), key)}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s: %v", c.Path(), err)
	return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
}

// validationFailed replies with one entry per failed field.
func validationFailed(c *fiber.Ctx, validationErrors validator.ValidationErrors) error {
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": i18n.T(lang(c), i18n.MsgValidationFailed),
		"errors":  errorMessages,
	})
}

// validate runs the struct validator and writes the 400 response on failure.
// It returns true when the request may proceed.
func validate(c *fiber.Ctx, v *validator.Validate, s interface{}) (bool, error) {
	err := v.Struct(s)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return false, validationFailed(c, validationErrors)
	}
	return false, invalidBody(c, err)
}

// serviceError maps a service error to its status code and localized message.
func serviceError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationFailed(c, validationErrors)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return message(c, m.status, m.key, err)
		}
	}
	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return message(c, fiber.StatusInternalServerError, i18n.MsgInternal, err)
}

func uintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid %s '%s'", name, raw)
	}
	return uint(n), nil
}
