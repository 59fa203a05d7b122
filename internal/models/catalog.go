package models

import "time"

// PricingUnit tells the price calculator what a ServiceType's price is counted in.
type PricingUnit string

const (
	UnitFlat   PricingUnit = "flat"   // one price for the whole service
	UnitPiece  PricingUnit = "unit"   // per pair, per piece, per person
	UnitSquare PricingUnit = "m2"     // per square meter of measured pieces
	UnitDay    PricingUnit = "day"    // per day
	UnitOption PricingUnit = "option" // sum of the selected sub-options
	UnitHour   PricingUnit = "hour"   // hourly security quotes only
)

// Menage is a top-level service category grouping service types.
type Menage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NameFr    string    `json:"name_fr" gorm:"type:varchar(200)" validate:"max=200"`
	NameAr    string    `json:"name_ar" gorm:"type:varchar(200)" validate:"max=200"`
	NameEn    string    `json:"name_en" gorm:"type:varchar(200)" validate:"max=200"`
	CreatedAt time.Time `json:"created_at"`
}

// Name returns the name in the given language ("fr", "ar" or "en").
func (m Menage) Name(lang string) string {
	return pickLang(lang, m.NameFr, m.NameAr, m.NameEn)
}

// ServiceType is a bookable catalog entry (a cleaning sub-service, a shoe-care variant...).
type ServiceType struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	NameFr        string          `json:"name_fr" gorm:"type:varchar(200)" validate:"max=200"`
	NameAr        string          `json:"name_ar" gorm:"type:varchar(200)" validate:"max=200"`
	NameEn        string          `json:"name_en" gorm:"type:varchar(200)" validate:"max=200"`
	DescriptionFr string          `json:"description_fr" validate:"max=2000"`
	DescriptionAr string          `json:"description_ar" validate:"max=2000"`
	DescriptionEn string          `json:"description_en" validate:"max=2000"`
	Price         float64         `json:"price" validate:"gte=0"`
	PricingUnit   PricingUnit     `json:"pricing_unit" gorm:"type:varchar(16);default:flat" validate:"omitempty,oneof=flat unit m2 day option"`
	ImageURL      string          `json:"image_url" validate:"max=500"`
	MenageID      *uint           `json:"menage_id"`
	Menage        *Menage         `json:"menage,omitempty" gorm:"foreignKey:MenageID"`
	Options       []ServiceOption `json:"options,omitempty" gorm:"foreignKey:ServiceTypeID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName keeps the historical table name of the catalog.
func (ServiceType) TableName() string { return "types_menage" }

// Name returns the name in the given language ("fr", "ar" or "en").
func (s ServiceType) Name(lang string) string {
	return pickLang(lang, s.NameFr, s.NameAr, s.NameEn)
}

// ServiceOption is a priced sub-option of a service type, e.g. a clothing category for laundry.
type ServiceOption struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	ServiceTypeID uint    `json:"service_type_id" gorm:"index"`
	NameFr        string  `json:"name_fr" gorm:"type:varchar(200)"`
	NameAr        string  `json:"name_ar" gorm:"type:varchar(200)"`
	NameEn        string  `json:"name_en" gorm:"type:varchar(200)"`
	Price         float64 `json:"price" validate:"gte=0"`
}

// SecurityRole is a bookable security staffing profile.
type SecurityRole struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	NameFr     string    `json:"name_fr" gorm:"type:varchar(200)" validate:"max=200"`
	NameAr     string    `json:"name_ar" gorm:"type:varchar(200)" validate:"max=200"`
	NameEn     string    `json:"name_en" gorm:"type:varchar(200)" validate:"max=200"`
	DayRate    float64   `json:"day_rate" validate:"gte=0"`
	HourlyRate float64   `json:"hourly_rate" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at"`
}

func pickLang(lang, fr, ar, en string) string {
	switch lang {
	case "ar":
		return ar
	case "en":
		return en
	default:
		return fr
	}
}
