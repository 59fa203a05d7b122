package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"darna/internal/events"
	"darna/internal/models"
	"darna/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"golang.org/x/sync/singleflight"
)

// RedirectAfterSeconds is how long the confirmation stays on screen before the client navigates home.
const RedirectAfterSeconds = 3

// ContactInfo is the contact block of a reservation form.
type ContactInfo struct {
	FullName      string     `json:"full_name" validate:"required,max=200"`
	Phone         string     `json:"phone" validate:"required,max=50"`
	Email         string     `json:"email" validate:"omitempty,email,max=255"`
	Address       string     `json:"address" validate:"max=500"`
	PreferredDate *time.Time `json:"preferred_date"`
	Notes         string     `json:"notes" validate:"max=2000"`
}

// SubmitRequest is a complete reservation form. Prices sent by the client are ignored.
type SubmitRequest struct {
	QuoteRequest
	ContactInfo
	IdempotencyKey string `json:"idempotency_key" validate:"max=64"`
}

// SubmitResult is the outcome of a submission. Duplicate is set when the idempotency
// key had already produced a reservation.
type SubmitResult struct {
	Reservation          *models.Reservation `json:"reservation"`
	Quote                *Quote              `json:"quote,omitempty"`
	Duplicate            bool                `json:"duplicate"`
	RedirectAfterSeconds int                 `json:"redirect_after_seconds"`
}

type reservationDetails struct {
	Inputs QuoteRequest `json:"inputs"`
	Quote  *Quote       `json:"quote"`
}

// ReservationService turns reservation forms into stored reservations and serves them to admins.
type ReservationService struct {
	repo     repositories.ReservationRepository
	drafts   repositories.DraftRepository
	quotes   *QuoteService
	bus      *events.Bus
	validate *validator.Validate
	inflight singleflight.Group
}

// NewReservationService creates a new ReservationService.
func NewReservationService(repo repositories.ReservationRepository, drafts repositories.DraftRepository,
	quotes *QuoteService, bus *events.Bus) *ReservationService {
	return &ReservationService{
		repo:     repo,
		drafts:   drafts,
		quotes:   quotes,
		bus:      bus,
		validate: validator.New(),
	}
}

// Submit validates and prices a reservation form and stores it as pending. owner may be empty,
// in which case the idempotency key is ignored.
// Validation failures are returned as validator.ValidationErrors.
func (s *ReservationService) Submit(owner string, req SubmitRequest) (*SubmitResult, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownReservationKind, req.Kind)
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.Notes = strings.TrimSpace(req.Notes)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	if owner == "" {
		req.IdempotencyKey = ""
	}
	if req.IdempotencyKey == "" {
		return s.submit(owner, req)
	}
	v, err, _ := s.inflight.Do(owner+"\x00"+req.IdempotencyKey, func() (interface{}, error) {
		return s.submit(owner, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SubmitResult), nil
}

func (s *ReservationService) submit(owner string, req SubmitRequest) (*SubmitResult, error) {
	key := req.IdempotencyKey
	if key != "" {
		existing, err := s.repo.GetByKey(owner, key)
		if err == nil {
			return duplicateResult(req.Kind, existing)
		}
		if !repositories.IsNotFound(err) {
			return nil, err
		}
	}

	quote, err := s.quotes.Quote(req.QuoteRequest)
	if err != nil {
		return nil, err
	}
	if !quote.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuote, strings.Join(quote.Problems, "; "))
	}

	details, err := json.Marshal(reservationDetails{Inputs: req.QuoteRequest, Quote: quote})
	if err != nil {
		return nil, fmt.Errorf("failed to encode reservation details: %w", err)
	}

	res := &models.Reservation{
		ID:            uuid.New().String(),
		Kind:          req.Kind,
		UserID:        owner,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		PreferredDate: req.PreferredDate,
		Notes:         req.Notes,
		Details:       string(details),
		TotalPrice:    quote.Total,
		Status:        models.StatusPending,
	}
	if req.Kind == models.KindSecurity {
		res.SecurityRoleID = optionalID(req.SecurityRoleID)
	} else {
		res.ServiceTypeID = optionalID(req.ServiceTypeID)
	}

	if err := s.repo.Create(res, owner, key); err != nil {
		if repositories.IsDuplicate(err) && key != "" {
			existing, getErr := s.repo.GetByKey(owner, key)
			if getErr != nil {
				return nil, getErr
			}
			return duplicateResult(req.Kind, existing)
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	if owner != "" {
		if err := s.drafts.Delete(owner); err != nil {
			log.Printf("Warning: failed to clear booking draft of %s: %v", owner, err)
		}
	}
	s.publish(events.ReservationCreated, res)

	return &SubmitResult{
		Reservation:          res,
		Quote:                quote,
		RedirectAfterSeconds: RedirectAfterSeconds,
	}, nil
}

// duplicateResult replays the reservation a key already produced. A key reused
// for another kind is a different intent and is refused.
func duplicateResult(kind models.ReservationKind, res *models.Reservation) (*SubmitResult, error) {
	if res.Kind != kind {
		return nil, fmt.Errorf("%w: key was used for %s", ErrIdempotencyKeyReused, res.Kind)
	}
	return &SubmitResult{
		Reservation:          res,
		Duplicate:            true,
		RedirectAfterSeconds: RedirectAfterSeconds,
	}, nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// List returns the reservations of a kind, newest first, optionally filtered by status.
func (s *ReservationService) List(kind models.ReservationKind, status string) ([]models.Reservation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownReservationKind, kind)
	}
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidStatus, status)
	}
	return s.repo.List(kind, status)
}

// Get returns one reservation.
func (s *ReservationService) Get(kind models.ReservationKind, id string) (*models.Reservation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownReservationKind, kind)
	}
	res, err := s.repo.GetByID(kind, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, id)
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatus moves a reservation to status and returns it.
func (s *ReservationService) UpdateStatus(kind models.ReservationKind, id, status string) (*models.Reservation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownReservationKind, kind)
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(kind, id, status); err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, id)
		}
		return nil, err
	}
	res, err := s.Get(kind, id)
	if err != nil {
		return nil, err
	}
	s.publish(events.ReservationStatus, res)
	return res, nil
}

// Export builds a workbook of every reservation of a kind.
func (s *ReservationService) Export(kind models.ReservationKind) (*xlsx.File, error) {
	list, err := s.List(kind, "")
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Status", "FullName", "Phone", "Email", "Address",
		"PreferredDate", "TotalPrice", "Notes", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, r := range list {
		row := sheet.AddRow()
		row.AddCell().SetValue(r.ID)
		row.AddCell().SetValue(r.Status)
		row.AddCell().SetValue(r.FullName)
		row.AddCell().SetValue(r.Phone)
		row.AddCell().SetValue(r.Email)
		row.AddCell().SetValue(r.Address)
		preferred := ""
		if r.PreferredDate != nil {
			preferred = r.PreferredDate.Format("2006-01-02")
		}
		row.AddCell().SetValue(preferred)
		row.AddCell().SetValue(r.TotalPrice)
		row.AddCell().SetValue(r.Notes)
		row.AddCell().SetValue(r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// SaveDraft stores the owner's prefilled reservation form. payload must be a JSON object.
func (s *ReservationService) SaveDraft(owner string, payload json.RawMessage) (*models.BookingDraft, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return nil, ErrInvalidDraft
	}
	return s.drafts.Save(owner, string(payload))
}

// Draft returns the owner's booking draft.
func (s *ReservationService) Draft(owner string) (*models.BookingDraft, error) {
	d, err := s.drafts.Get(owner)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return d, nil
}

// ClearDraft deletes the owner's booking draft, if any.
func (s *ReservationService) ClearDraft(owner string) error {
	return s.drafts.Delete(owner)
}

func (s *ReservationService) publish(eventType string, res *models.Reservation) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:  eventType,
		Owner: res.UserID,
		Payload: map[string]interface{}{
			"id":          res.ID,
			"kind":        res.Kind,
			"status":      res.Status,
			"total_price": res.TotalPrice,
		},
	})
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
		return true
	}
	return false
}
