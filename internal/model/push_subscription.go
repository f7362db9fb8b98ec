package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Each subscription belongs to the user who registered it; reservation change
// notifications fan out to the subscriptions of the owner and attendees.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	UserID    string    `gorm:"size:24;index;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
