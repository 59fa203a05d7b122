package models

import "time"

// Promotion is a checkout discount code valid within [StartDate, EndDate].
type Promotion struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Code            string    `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	DiscountPercent float64   `json:"discount_percent" validate:"gt=0,lte=100"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}
