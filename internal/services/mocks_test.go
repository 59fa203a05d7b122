package services_test

import (
	"darna/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(category string) ([]models.Product, error) {
	args := m.Called(category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ids []uint) ([]models.Product, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockServiceTypeRepository is a mock implementation of repositories.ServiceTypeRepository
type MockServiceTypeRepository struct {
	mock.Mock
}

func (m *MockServiceTypeRepository) GetAll() ([]models.ServiceType, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) GetByID(id uint) (*models.ServiceType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) Create(st *models.ServiceType) error {
	return m.Called(st).Error(0)
}

func (m *MockServiceTypeRepository) Update(st *models.ServiceType) error {
	return m.Called(st).Error(0)
}

func (m *MockServiceTypeRepository) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockServiceTypeRepository) CreateMenage(menage *models.Menage) error {
	return m.Called(menage).Error(0)
}

func (m *MockServiceTypeRepository) GetSecurityRoles() ([]models.SecurityRole, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SecurityRole), args.Error(1)
}

func (m *MockServiceTypeRepository) GetSecurityRole(id uint) (*models.SecurityRole, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SecurityRole), args.Error(1)
}

func (m *MockServiceTypeRepository) CreateSecurityRole(role *models.SecurityRole) error {
	return m.Called(role).Error(0)
}

// MockCartStore is a mock implementation of repositories.CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Items(owner string) ([]models.CartEntry, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartEntry), args.Error(1)
}

func (m *MockCartStore) Add(owner string, productID uint, qty int) (models.CartEntry, error) {
	args := m.Called(owner, productID, qty)
	return args.Get(0).(models.CartEntry), args.Error(1)
}

func (m *MockCartStore) SetQuantity(owner string, productID uint, qty int) error {
	return m.Called(owner, productID, qty).Error(0)
}

func (m *MockCartStore) Remove(owner string, productIDs ...uint) error {
	return m.Called(owner, productIDs).Error(0)
}

func (m *MockCartStore) Clear(owner string) error {
	return m.Called(owner).Error(0)
}

// MockPromotionRepository is a mock implementation of repositories.PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) GetByCode(code string) (*models.Promotion, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Create(p *models.Promotion) error {
	return m.Called(p).Error(0)
}

// MockRatingRepository is a mock implementation of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(r *models.Rating) error {
	return m.Called(r).Error(0)
}

func (m *MockRatingRepository) Exists(userID string, productID uint) (bool, error) {
	args := m.Called(userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) Summary(productID uint) (models.RatingSummary, error) {
	args := m.Called(productID)
	return args.Get(0).(models.RatingSummary), args.Error(1)
}

func (m *MockRatingRepository) ProductIDsByUser(userID string) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockReservationRepository is a mock implementation of repositories.ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(r *models.Reservation, owner, key string) error {
	return m.Called(r, owner, key).Error(0)
}

func (m *MockReservationRepository) GetByKey(owner, key string) (*models.Reservation, error) {
	args := m.Called(owner, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByID(kind models.ReservationKind, id string) (*models.Reservation, error) {
	args := m.Called(kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(kind models.ReservationKind, status string) ([]models.Reservation, error) {
	args := m.Called(kind, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(kind models.ReservationKind, id string, status string) error {
	return m.Called(kind, id, status).Error(0)
}

// MockDraftRepository is a mock implementation of repositories.DraftRepository
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Get(owner string) (*models.BookingDraft, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDraft), args.Error(1)
}

func (m *MockDraftRepository) Save(owner, payload string) (*models.BookingDraft, error) {
	args := m.Called(owner, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDraft), args.Error(1)
}

func (m *MockDraftRepository) Delete(owner string) error {
	return m.Called(owner).Error(0)
}
