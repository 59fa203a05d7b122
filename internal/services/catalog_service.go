package services

import (
	"fmt"
	"time"

	"darna/internal/cache"
	"darna/internal/catalog"
	"darna/internal/models"
	"darna/internal/repositories"
	"darna/pkg/storage"
)

const (
	snapshotKey   = "catalog"
	servicesImage = "services"
)

// CatalogSnapshot is the classified catalog as of LoadedAt.
type CatalogSnapshot struct {
	Types    []models.ServiceType
	Buckets  map[string][]models.ServiceType
	Tags     map[uint][]string
	LoadedAt time.Time
}

// BucketCount is the number of service types a bucket holds.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// CatalogService loads the service catalog and serves it grouped by bucket.
type CatalogService struct {
	repo        repositories.ServiceTypeRepository
	classifier  *catalog.Classifier
	snapshots   *cache.TTLCache[*CatalogSnapshot]
	storageBase string
}

// NewCatalogService creates a new CatalogService. A ttl of zero disables caching.
func NewCatalogService(repo repositories.ServiceTypeRepository, classifier *catalog.Classifier, ttl time.Duration, storageBase string) *CatalogService {
	return &CatalogService{
		repo:        repo,
		classifier:  classifier,
		snapshots:   cache.New[*CatalogSnapshot](ttl),
		storageBase: storageBase,
	}
}

// Classifier returns the rule table in use.
func (s *CatalogService) Classifier() *catalog.Classifier {
	return s.classifier
}

// Load returns the cached snapshot, fetching and classifying the catalog when it is stale.
func (s *CatalogService) Load() (*CatalogSnapshot, error) {
	if snap, ok := s.snapshots.Get(snapshotKey); ok {
		return snap, nil
	}

	types, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for i := range types {
		s.resolveImage(&types[i])
	}

	snap := &CatalogSnapshot{
		Types:    types,
		Buckets:  s.classifier.Classify(types),
		Tags:     make(map[uint][]string, len(types)),
		LoadedAt: time.Now(),
	}
	for _, st := range types {
		snap.Tags[st.ID] = s.classifier.Tags(st)
	}
	s.snapshots.Set(snapshotKey, snap)
	return snap, nil
}

// Bucket returns the service types of a bucket. An empty name returns the whole catalog.
func (s *CatalogService) Bucket(name string) ([]models.ServiceType, error) {
	if name != "" && !s.classifier.HasBucket(name) {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownBucket, name)
	}
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return snap.Types, nil
	}
	return snap.Buckets[name], nil
}

// BucketCounts lists every bucket with the number of service types in it, in rule order.
func (s *CatalogService) BucketCounts() ([]BucketCount, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	counts := make([]BucketCount, 0, len(snap.Buckets))
	for _, b := range s.classifier.Buckets() {
		counts = append(counts, BucketCount{Bucket: b, Count: len(snap.Buckets[b])})
	}
	return counts, nil
}

// ServiceType returns one service type, read through to the store.
func (s *CatalogService) ServiceType(id uint) (*models.ServiceType, error) {
	st, err := s.repo.GetByID(id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		return nil, err
	}
	s.resolveImage(st)
	return st, nil
}

// SecurityRoles lists the guard roles with their rates.
func (s *CatalogService) SecurityRoles() ([]models.SecurityRole, error) {
	return s.repo.GetSecurityRoles()
}

// Invalidate drops the cached snapshot.
func (s *CatalogService) Invalidate() {
	s.snapshots.Purge()
}

// CreateServiceType adds a service type and its options.
func (s *CatalogService) CreateServiceType(st *models.ServiceType) error {
	st.ID = 0
	if st.PricingUnit == "" {
		st.PricingUnit = models.UnitFlat
	}
	if err := s.repo.Create(st); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// UpdateServiceType replaces a service type. Options are replaced when st.Options is non-nil.
func (s *CatalogService) UpdateServiceType(st *models.ServiceType) error {
	if st.PricingUnit == "" {
		st.PricingUnit = models.UnitFlat
	}
	if err := s.repo.Update(st); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		return err
	}
	s.Invalidate()
	return nil
}

// DeleteServiceType removes a service type and its options.
func (s *CatalogService) DeleteServiceType(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		return err
	}
	s.Invalidate()
	return nil
}

// CreateMenage adds a top-level category.
func (s *CatalogService) CreateMenage(m *models.Menage) error {
	m.ID = 0
	if err := s.repo.CreateMenage(m); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// CreateSecurityRole adds a guard role.
func (s *CatalogService) CreateSecurityRole(role *models.SecurityRole) error {
	role.ID = 0
	return s.repo.CreateSecurityRole(role)
}

func (s *CatalogService) resolveImage(st *models.ServiceType) {
	st.ImageURL = storage.PublicURL(s.storageBase, servicesImage, st.ImageURL)
}
