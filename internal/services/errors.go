package services

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrServiceNotFound        = errors.New("service not found")
	ErrUnknownBucket          = errors.New("unknown catalog bucket")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrInvalidQuote           = errors.New("reservation is incomplete")
	ErrUnknownReservationKind = errors.New("unknown reservation kind")
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrIdempotencyKeyReused   = errors.New("idempotency key already used for another reservation kind")
	ErrInvalidStatus          = errors.New("invalid reservation status")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrDuplicateRating        = errors.New("product already rated by this user")
	ErrPromotionNotFound      = errors.New("promotion not found")
	ErrPromotionNotStarted    = errors.New("promotion not started")
	ErrPromotionExpired       = errors.New("promotion expired")
	ErrDuplicatePromotion     = errors.New("promotion code already exists")
	ErrInvalidDraft           = errors.New("draft payload must be a JSON object")
	ErrDraftNotFound          = errors.New("no booking draft")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
)
