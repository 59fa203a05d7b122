package models

import "time"

// CartItem is one line of an authenticated user's cart. A user holds at most one line per product.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_carts_owner_product"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_carts_owner_product"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

func (CartItem) TableName() string { return "carts" }

// CartEntry is one product line of a cart; a guest cart stores a JSON array of them.
type CartEntry struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// GuestCart stores a guest's cart as a JSON array of CartEntry.
type GuestCart struct {
	GuestID   string `gorm:"primaryKey;type:varchar(64)"`
	Items     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// CartLine is a cart entry resolved against its product.
type CartLine struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
	Product   Product   `json:"product"`
	LineTotal float64   `json:"line_total"`
}

// CartSummary is the checkout view of a cart.
type CartSummary struct {
	Lines       []CartLine `json:"items"`
	ItemCount   int        `json:"item_count"`
	Subtotal    float64    `json:"subtotal"`
	PromoCode   string     `json:"promo_code,omitempty"`
	DiscountPct float64    `json:"discount_percent,omitempty"`
	Discount    float64    `json:"discount"`
	Shipping    float64    `json:"shipping"`
	Total       float64    `json:"total"`
}
