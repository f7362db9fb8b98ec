package model

import (
	"time"

	"gorm.io/gorm"
)

// Item types.
const (
	ItemTypeRoom      = "room"
	ItemTypeSeat      = "seat"
	ItemTypeEquipment = "equipment"
)

// Item statuses.
const (
	ItemStatusAvailable   = "available"
	ItemStatusInUse       = "in-use"
	ItemStatusUnavailable = "unavailable"
)

// ValidItemType reports whether t names a known item type.
func ValidItemType(t string) bool {
	return t == ItemTypeRoom || t == ItemTypeSeat || t == ItemTypeEquipment
}

// ValidItemStatus reports whether s names a known item status.
func ValidItemStatus(s string) bool {
	return s == ItemStatusAvailable || s == ItemStatusInUse || s == ItemStatusUnavailable
}

// Item is a bookable resource. The three variants (room, seat, equipment)
// share one table, tagged by ItemType; variant-specific columns are nullable
// and unused by the other variants.
type Item struct {
	ID          string `gorm:"primaryKey;size:24" json:"id"`
	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Status      string `gorm:"size:16;not null;default:available" json:"status"`
	Description string `gorm:"size:200" json:"description"`
	ImageURL    string `json:"imageUrl"`
	ItemType    string `gorm:"size:16;not null;index" json:"itemType"`

	// room, equipment
	CategoryID *string   `gorm:"size:24;index" json:"categoryId,omitempty"`
	Category   *Category `json:"category,omitempty"`

	// room
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity,omitempty"`

	// seat
	UserID *string `gorm:"size:24" json:"userId,omitempty"`
	User   *User   `json:"user,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}
