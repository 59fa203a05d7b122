package services_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"darna/internal/events"
	"darna/internal/models"
	"darna/internal/repositories"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	repo    *MockReservationRepository
	drafts  *MockDraftRepository
	catalog *MockServiceTypeRepository
	bus     *events.Bus
	service *services.ReservationService
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		repo:    new(MockReservationRepository),
		drafts:  new(MockDraftRepository),
		catalog: new(MockServiceTypeRepository),
		bus:     events.NewBus(nil),
	}
	f.service = services.NewReservationService(f.repo, f.drafts, services.NewQuoteService(f.catalog), f.bus)
	f.catalog.On("GetByID", uint(5)).Return(&models.ServiceType{ID: 5, NameFr: "Cirage", Price: 20, PricingUnit: models.UnitPiece}, nil)
	return f
}

func shoeRequest(count interface{}, key string) services.SubmitRequest {
	return services.SubmitRequest{
		QuoteRequest: services.QuoteRequest{Kind: models.KindShoes, ServiceTypeID: 5, Count: count},
		ContactInfo: services.ContactInfo{
			FullName: " Amina B. ",
			Phone:    "0612345678",
			Email:    "amina@example.com",
			Address:  "12 rue des Oliviers",
		},
		IdempotencyKey: key,
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestReservationService_Submit(t *testing.T) {
	f := newReservationFixture()
	created, cancel := f.bus.Subscribe(func(e events.Event) bool { return e.Type == events.ReservationCreated })
	defer cancel()

	var stored *models.Reservation
	f.repo.On("GetByKey", "user-1", "k1").Return(nil, notFound("request k1")).Once()
	f.repo.On("Create", mock.AnythingOfType("*models.Reservation"), "user-1", "k1").
		Run(func(args mock.Arguments) { stored = args.Get(0).(*models.Reservation) }).
		Return(nil).Once()
	f.drafts.On("Delete", "user-1").Return(nil).Once()

	res, err := f.service.Submit("user-1", shoeRequest(3, "k1"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 3, res.RedirectAfterSeconds)
	assert.Equal(t, 60.0, res.Quote.Total)

	require.NotNil(t, stored)
	assert.Same(t, stored, res.Reservation)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "Amina B.", stored.FullName)
	assert.Equal(t, 60.0, stored.TotalPrice)
	assert.Equal(t, "user-1", stored.UserID)
	require.NotNil(t, stored.ServiceTypeID)
	assert.Equal(t, uint(5), *stored.ServiceTypeID)
	assert.Nil(t, stored.SecurityRoleID)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stored.Details), &details))
	assert.Contains(t, details, "inputs")
	assert.Contains(t, details, "quote")

	select {
	case e := <-created:
		assert.Equal(t, "user-1", e.Owner)
	case <-time.After(time.Second):
		t.Fatal("no reservation.created event")
	}
	f.repo.AssertExpectations(t)
	f.drafts.AssertExpectations(t)
}

func TestReservationService_SubmitReplay(t *testing.T) {
	f := newReservationFixture()
	first := &models.Reservation{ID: "res-1", Kind: models.KindShoes, Status: models.StatusPending, TotalPrice: 60}

	// The key already produced a reservation.
	f.repo.On("GetByKey", "user-1", "k1").Return(first, nil).Once()
	res, err := f.service.Submit("user-1", shoeRequest(3, "k1"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, "res-1", res.Reservation.ID)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)

	// Another process inserted the key between lookup and insert.
	f.repo.On("GetByKey", "user-1", "k2").Return(nil, notFound("request k2")).Once()
	f.repo.On("Create", mock.AnythingOfType("*models.Reservation"), "user-1", "k2").Return(fmt.Errorf("request k2: %w", repositories.ErrDuplicate)).Once()
	f.repo.On("GetByKey", "user-1", "k2").Return(first, nil).Once()
	res, err = f.service.Submit("user-1", shoeRequest(3, "k2"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	f.repo.AssertExpectations(t)
	f.drafts.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestReservationService_SubmitKeyReusedForOtherKind(t *testing.T) {
	f := newReservationFixture()
	cleaning := &models.Reservation{ID: "res-9", Kind: models.KindCleaning, FullName: "Amina", Status: models.StatusPending}

	f.repo.On("GetByKey", "user-1", "k1").Return(cleaning, nil).Once()
	res, err := f.service.Submit("user-1", shoeRequest(3, "k1"))
	assert.ErrorIs(t, err, services.ErrIdempotencyKeyReused)
	assert.Nil(t, res)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationService_SubmitWithoutOwnerIgnoresKey(t *testing.T) {
	f := newReservationFixture()

	f.repo.On("Create", mock.AnythingOfType("*models.Reservation"), "", "").Return(nil).Twice()
	first, err := f.service.Submit("", shoeRequest(3, "k1"))
	require.NoError(t, err)
	second, err := f.service.Submit("", shoeRequest(3, "k1"))
	require.NoError(t, err)

	assert.False(t, second.Duplicate)
	assert.NotEqual(t, first.Reservation.ID, second.Reservation.ID)
	f.repo.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestReservationService_SubmitConcurrentDoubleClick(t *testing.T) {
	f := newReservationFixture()
	f.drafts.On("Delete", "user-1").Return(nil)

	release := make(chan time.Time)
	var stored *models.Reservation
	f.repo.On("GetByKey", "user-1", "k1").
		WaitUntil(release).
		Return(nil, notFound("request k1")).Once()
	f.repo.On("Create", mock.AnythingOfType("*models.Reservation"), "user-1", "k1").
		Run(func(args mock.Arguments) { stored = args.Get(0).(*models.Reservation) }).
		Return(nil).Once()

	const clicks = 5
	results := make(chan *services.SubmitResult, clicks)
	errs := make(chan error, clicks)
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.service.Submit("user-1", shoeRequest(3, "k1"))
			results <- res
			errs <- err
		}()
	}
	// Let every click reach the in-flight call before the lookup returns.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	require.NotNil(t, stored)
	for res := range results {
		require.NotNil(t, res)
		assert.Equal(t, stored.ID, res.Reservation.ID)
	}
	f.repo.AssertNumberOfCalls(t, "Create", 1)
	f.repo.AssertNumberOfCalls(t, "GetByKey", 1)
}

func TestReservationService_SubmitValidation(t *testing.T) {
	f := newReservationFixture()

	noPhone := shoeRequest(3, "")
	noPhone.Phone = "   "
	_, err := f.service.Submit("", noPhone)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Phone", verrs[0].Field())

	blankName := shoeRequest(3, "")
	blankName.FullName = "\t"
	_, err = f.service.Submit("", blankName)
	assert.True(t, errors.As(err, &verrs))

	badEmail := shoeRequest(3, "")
	badEmail.Email = "not-an-email"
	_, err = f.service.Submit("", badEmail)
	assert.True(t, errors.As(err, &verrs))

	// Email is optional.
	noEmail := shoeRequest(0, "")
	noEmail.Email = ""
	_, err = f.service.Submit("", noEmail)
	assert.ErrorIs(t, err, services.ErrInvalidQuote)

	unknown := shoeRequest(3, "")
	unknown.Kind = "gardening"
	_, err = f.service.Submit("", unknown)
	assert.ErrorIs(t, err, services.ErrUnknownReservationKind)

	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationService_Admin(t *testing.T) {
	f := newReservationFixture()
	statusChanges, cancel := f.bus.Subscribe(func(e events.Event) bool { return e.Type == events.ReservationStatus })
	defer cancel()

	_, err := f.service.List("gardening", "")
	assert.ErrorIs(t, err, services.ErrUnknownReservationKind)
	_, err = f.service.List(models.KindShoes, "lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	f.repo.On("UpdateStatus", models.KindShoes, "res-1", models.StatusConfirmed).Return(nil).Once()
	f.repo.On("GetByID", models.KindShoes, "res-1").Return(&models.Reservation{ID: "res-1", Status: models.StatusConfirmed}, nil).Once()
	res, err := f.service.UpdateStatus(models.KindShoes, "res-1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Status)
	select {
	case <-statusChanges:
	case <-time.After(time.Second):
		t.Fatal("no status event")
	}

	_, err = f.service.UpdateStatus(models.KindShoes, "res-1", "archived")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	f.repo.On("UpdateStatus", models.KindShoes, "missing", models.StatusCancelled).Return(notFound("reservation missing")).Once()
	_, err = f.service.UpdateStatus(models.KindShoes, "missing", models.StatusCancelled)
	assert.ErrorIs(t, err, services.ErrReservationNotFound)
	f.repo.AssertExpectations(t)
}

func TestReservationService_Export(t *testing.T) {
	f := newReservationFixture()
	preferred := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	f.repo.On("List", models.KindCleaning, "").Return([]models.Reservation{
		{ID: "a", FullName: "Karim", Phone: "0600", TotalPrice: 30, Status: models.StatusPending, PreferredDate: &preferred},
		{ID: "b", FullName: "Sara", Phone: "0611", TotalPrice: 350, Status: models.StatusCompleted},
	}, nil).Once()

	file, err := f.service.Export(models.KindCleaning)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0].Cells[0].Value)
	assert.Equal(t, "Karim", rows[1].Cells[2].Value)
	assert.Equal(t, "2026-07-01", rows[1].Cells[6].Value)
	assert.Equal(t, "", rows[2].Cells[6].Value)
}

func TestReservationService_Drafts(t *testing.T) {
	f := newReservationFixture()

	for _, payload := range []string{"not json", "[]", "null"} {
		_, err := f.service.SaveDraft("guest_1", json.RawMessage(payload))
		assert.ErrorIs(t, err, services.ErrInvalidDraft, payload)
	}

	payload := `{"kind":"shoes","count":2}`
	f.drafts.On("Save", "guest_1", payload).Return(&models.BookingDraft{OwnerKey: "guest_1", Payload: payload}, nil).Once()
	d, err := f.service.SaveDraft("guest_1", json.RawMessage(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, d.Payload)

	f.drafts.On("Get", "guest_2").Return(nil, notFound("draft guest_2")).Once()
	_, err = f.service.Draft("guest_2")
	assert.ErrorIs(t, err, services.ErrDraftNotFound)
	f.drafts.AssertExpectations(t)
}
