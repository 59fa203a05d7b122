package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a shop product.
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	NameFr      string         `json:"name_fr" gorm:"type:varchar(200)" validate:"required,min=2,max=200"`
	NameAr      string         `json:"name_ar" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	NameEn      string         `json:"name_en" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	Description string         `json:"description" validate:"omitempty,max=2000"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Category    string         `json:"category" gorm:"type:varchar(100);index" validate:"omitempty,max=100"`
	ImageURL    string         `json:"image_url" validate:"omitempty,max=500"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"` // deleted products stop resolving in carts
}
