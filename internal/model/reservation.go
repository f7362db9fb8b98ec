package model

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. A reservation starts out reserved and ends up either
// completed or canceled; there is no transition out of the terminal states.
const (
	ReservationStatusReserved  = "reserved"
	ReservationStatusCompleted = "completed"
	ReservationStatusCanceled  = "canceled"
)

// ValidReservationStatus reports whether s names a known reservation status.
func ValidReservationStatus(s string) bool {
	return s == ReservationStatusReserved || s == ReservationStatusCompleted || s == ReservationStatusCanceled
}

// Reservation is a time-bounded booking of an item by a user. The [StartAt,
// EndAt) interval of a reserved reservation never overlaps another reserved
// reservation on the same item; touching endpoints are allowed.
type Reservation struct {
	ID       string    `gorm:"primaryKey;size:24" json:"id"`
	UserID   string    `gorm:"size:24;not null;index" json:"userId"`
	User     *User     `json:"user,omitempty"`
	ItemID   string    `gorm:"size:24;not null;index:idx_reservations_item_status" json:"itemId"`
	Item     *Item     `json:"item,omitempty"`
	ItemType string    `gorm:"size:16;not null;index:idx_reservations_type_start" json:"itemType"`
	StartAt  time.Time `gorm:"not null;index:idx_reservations_type_start" json:"startAt"`
	EndAt    time.Time `gorm:"not null" json:"endAt"`
	Status   string    `gorm:"size:16;not null;index:idx_reservations_item_status" json:"status"`
	Notes    string    `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Attendees []User `gorm:"many2many:reservation_attendees;" json:"attendees"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
