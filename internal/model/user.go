package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents a member of the organization.
type User struct {
	ID           string    `gorm:"primaryKey;size:24" json:"id"`
	Name         string    `gorm:"size:10;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password     string    `gorm:"size:60" json:"-"`
	Role         string    `gorm:"size:10;not null;default:member" json:"role"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Teams []Team `gorm:"many2many:user_teams;" json:"teams"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}
