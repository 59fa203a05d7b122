package repositories

import (
	"fmt"

	"darna/internal/models"

	"gorm.io/gorm"
)

// ServiceTypeRepository is the catalog loader: service types with their parent
// category and sub-options, plus the categories and security roles around them.
type ServiceTypeRepository interface {
	GetAll() ([]models.ServiceType, error)
	GetByID(id uint) (*models.ServiceType, error)
	Create(st *models.ServiceType) error
	Update(st *models.ServiceType) error
	Delete(id uint) error
	CreateMenage(m *models.Menage) error
	GetSecurityRoles() ([]models.SecurityRole, error)
	GetSecurityRole(id uint) (*models.SecurityRole, error)
	CreateSecurityRole(role *models.SecurityRole) error
}

// GORMServiceTypeRepository is a GORM implementation of ServiceTypeRepository.
type GORMServiceTypeRepository struct {
	db *gorm.DB
}

// NewGORMServiceTypeRepository creates a new instance of GORMServiceTypeRepository.
func NewGORMServiceTypeRepository(db *gorm.DB) *GORMServiceTypeRepository {
	return &GORMServiceTypeRepository{db: db}
}

// GetAll returns every service type, newest first, parent and options preloaded.
func (r *GORMServiceTypeRepository) GetAll() ([]models.ServiceType, error) {
	var types []models.ServiceType
	err := r.db.Preload("Menage").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC, id DESC").
		Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get service types: %w", err)
	}
	return types, nil
}

// GetByID returns one service type with parent and options.
func (r *GORMServiceTypeRepository) GetByID(id uint) (*models.ServiceType, error) {
	var st models.ServiceType
	err := r.db.Preload("Menage").
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&st, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "service type with ID %d", id)
	}
	return &st, nil
}

// Create inserts a service type together with its options.
func (r *GORMServiceTypeRepository) Create(st *models.ServiceType) error {
	if st.PricingUnit == "" {
		st.PricingUnit = models.UnitFlat
	}
	if err := r.db.Omit("Menage").Create(st).Error; err != nil {
		return fmt.Errorf("failed to create service type: %w", err)
	}
	return nil
}

// Update overwrites the fields of an existing service type. When st carries
// options they replace the stored ones.
func (r *GORMServiceTypeRepository) Update(st *models.ServiceType) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ServiceType
		if err := tx.Select("id", "created_at").First(&existing, "id = ?", st.ID).Error; err != nil {
			return translate(err, "service type with ID %d for update", st.ID)
		}
		st.CreatedAt = existing.CreatedAt
		if st.PricingUnit == "" {
			st.PricingUnit = models.UnitFlat
		}
		if err := tx.Omit("Menage", "Options").Save(st).Error; err != nil {
			return fmt.Errorf("failed to update service type: %w", err)
		}
		if st.Options == nil {
			return nil
		}
		if err := tx.Where("service_type_id = ?", st.ID).Delete(&models.ServiceOption{}).Error; err != nil {
			return fmt.Errorf("failed to replace options of service type %d: %w", st.ID, err)
		}
		for i := range st.Options {
			st.Options[i].ID = 0
			st.Options[i].ServiceTypeID = st.ID
		}
		if len(st.Options) > 0 {
			if err := tx.Create(&st.Options).Error; err != nil {
				return fmt.Errorf("failed to create options of service type %d: %w", st.ID, err)
			}
		}
		return nil
	})
}

// Delete removes a service type and its options.
func (r *GORMServiceTypeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_type_id = ?", id).Delete(&models.ServiceOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete options of service type %d: %w", id, err)
		}
		res := tx.Delete(&models.ServiceType{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete service type: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("service type with ID %d for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// CreateMenage inserts a parent category.
func (r *GORMServiceTypeRepository) CreateMenage(m *models.Menage) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create menage: %w", err)
	}
	return nil
}

// GetSecurityRoles lists the security roles by id.
func (r *GORMServiceTypeRepository) GetSecurityRoles() ([]models.SecurityRole, error) {
	var roles []models.SecurityRole
	if err := r.db.Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to get security roles: %w", err)
	}
	return roles, nil
}

// GetSecurityRole returns one security role.
func (r *GORMServiceTypeRepository) GetSecurityRole(id uint) (*models.SecurityRole, error) {
	var role models.SecurityRole
	if err := r.db.First(&role, "id = ?", id).Error; err != nil {
		return nil, translate(err, "security role with ID %d", id)
	}
	return &role, nil
}

// CreateSecurityRole inserts a security role.
func (r *GORMServiceTypeRepository) CreateSecurityRole(role *models.SecurityRole) error {
	if err := r.db.Create(role).Error; err != nil {
		return fmt.Errorf("failed to create security role: %w", err)
	}
	return nil
}
