package models

import "time"

// Rating is a user's 1-5 rating of a product. One rating per (user, product).
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_ratings_product_user"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_ratings_product_user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingSummary aggregates the ratings of a product.
type RatingSummary struct {
	ProductID uint    `json:"product_id"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}
