package model

import (
	"time"

	"gorm.io/gorm"
)

// Team represents a department users can belong to.
type Team struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (t *Team) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}
