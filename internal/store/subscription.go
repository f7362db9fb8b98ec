package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking-backend/internal/model"
)

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}
	return &sub, nil
}

// UpsertSubscription creates or replaces a push subscription keyed by its
// endpoint.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if !model.IsValidID(sub.UserID) {
		return ErrInvalidID
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	res := s.db.WithContext(ctx).Delete(&model.PushSubscription{}, "endpoint = ?", endpoint)
	if res.Error != nil {
		return fmt.Errorf("delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// SubscriptionsForUsers returns the push subscriptions of all given users.
func (s *gormStore) SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs, "user_id IN ?", userIDs).Error; err != nil {
		return nil, fmt.Errorf("subscriptions for users: %w", err)
	}
	return subs, nil
}
