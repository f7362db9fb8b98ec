package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups items of a single type. Only room and equipment items are
// categorized; seats are not.
type Category struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	ItemType  string    `gorm:"size:16;not null" json:"itemType"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
