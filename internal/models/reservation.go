package models

import "time"

// ReservationKind selects the reservations table of a booking domain.
type ReservationKind string

const (
	KindCleaning ReservationKind = "cleaning"
	KindShoes    ReservationKind = "shoes"
	KindSecurity ReservationKind = "security"
	KindCuisine  ReservationKind = "cuisine"
)

// ReservationKinds lists every known kind.
var ReservationKinds = []ReservationKind{KindCleaning, KindShoes, KindSecurity, KindCuisine}

// Valid reports whether k is a known kind.
func (k ReservationKind) Valid() bool {
	for _, known := range ReservationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Table returns the reservations table of the kind.
func (k ReservationKind) Table() string {
	return string(k) + "_reservations"
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Reservation is a booking request submitted for admin follow-up.
// The same shape is stored in one table per kind.
type Reservation struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Kind           ReservationKind `json:"kind" gorm:"type:varchar(20)"`
	UserID         string          `json:"user_id,omitempty" gorm:"type:varchar(64)"`
	ServiceTypeID  *uint           `json:"service_type_id,omitempty"`
	SecurityRoleID *uint           `json:"security_role_id,omitempty"`
	FullName       string          `json:"full_name" gorm:"type:varchar(200)"`
	Phone          string          `json:"phone" gorm:"type:varchar(50)"`
	Email          string          `json:"email,omitempty" gorm:"type:varchar(255)"`
	Address        string          `json:"address,omitempty"`
	PreferredDate  *time.Time      `json:"preferred_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Details        string          `json:"details" gorm:"type:text"` // JSON of the quote inputs and breakdown
	TotalPrice     float64         `json:"total_price"`
	Status         string          `json:"status" gorm:"type:varchar(20)"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ReservationRequest records the idempotency key a reservation was created under.
// Keys are scoped to the owner that sent them.
type ReservationRequest struct {
	OwnerKey       string          `gorm:"primaryKey;type:varchar(64)"`
	IdempotencyKey string          `gorm:"primaryKey;type:varchar(64)"`
	Kind           ReservationKind `gorm:"type:varchar(20)"`
	ReservationID  string          `gorm:"type:varchar(36)"`
	CreatedAt      time.Time
}

// BookingDraft is a prefilled reservation form kept until a reservation succeeds.
type BookingDraft struct {
	OwnerKey  string    `json:"-" gorm:"primaryKey;type:varchar(64)"`
	Payload   string    `json:"payload" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}
