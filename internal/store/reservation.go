package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"booking-backend/internal/model"
	"booking-backend/internal/timeutil"
)

// startBuffer is how far in the past a reserved booking may start. A meeting
// that began a few minutes ago can still be booked.
const startBuffer = 10 * time.Minute

// ReservationInput carries the fields for a new reservation.
type ReservationInput struct {
	UserID    string
	ItemID    string
	StartAt   time.Time
	EndAt     time.Time
	Status    string
	Notes     string
	Attendees []string
}

// ReservationPatch carries a partial update; nil fields retain their stored
// values.
type ReservationPatch struct {
	StartAt   *time.Time
	EndAt     *time.Time
	Status    *string
	Notes     *string
	Attendees *[]string
}

// overlapExists reports whether any reserved reservation on the item
// intersects [start, end). Touching endpoints are not conflicts. excludeID
// lets an update check against all reservations but its own.
func overlapExists(tx *gorm.DB, itemID string, start, end time.Time, excludeID string) (bool, error) {
	q := tx.Model(&model.Reservation{}).
		Where("item_id = ? AND status = ?", itemID, model.ReservationStatusReserved).
		Where("start_at < ? AND end_at > ?", end, start).
		Where("NOT (start_at = ? OR end_at = ?)", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("overlap query for item %s: %w", itemID, err)
	}
	return n > 0, nil
}

// validateWindow enforces the time rules for a reserved window. Seat bookings
// are exempt from the granularity and past-start checks.
func validateWindow(itemType, status string, start, end, now time.Time) error {
	relaxed := itemType == model.ItemTypeSeat

	if !relaxed && (!timeutil.IsGranularityValid(start) || !timeutil.IsGranularityValid(end)) {
		return ErrBadGranularity
	}
	if !start.Before(end) {
		return ErrStartNotBeforeEnd
	}
	if status == model.ReservationStatusReserved && !relaxed && start.Before(now.Add(-startBuffer)) {
		return ErrStartTooOld
	}
	return nil
}

// loadAttendees resolves attendee ids to users, requiring every id to be well
// formed and to exist.
func (s *gormStore) loadAttendees(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	uniq := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !model.IsValidID(id) {
			return nil, ErrInvalidID
		}
		uniq[id] = struct{}{}
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Find(&users, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("load attendees: %w", err)
	}
	if len(users) != len(uniq) {
		return nil, ErrUserNotFound
	}
	return users, nil
}

// CreateReservation validates and persists a new booking. The overlap check
// and the insert run as one atomic unit under the item's advisory lock.
func (s *gormStore) CreateReservation(ctx context.Context, in ReservationInput) (*model.Reservation, error) {
	if !model.IsValidID(in.UserID) {
		return nil, ErrInvalidID
	}
	if !model.IsValidID(in.ItemID) {
		return nil, ErrInvalidID
	}

	var user model.User
	err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", in.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", in.UserID, err)
	}

	var item model.Item
	err = s.db.WithContext(ctx).Select("id", "item_type").First(&item, "id = ?", in.ItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup item %s: %w", in.ItemID, err)
	}

	status := in.Status
	if status == "" {
		status = model.ReservationStatusReserved
	}
	if !model.ValidReservationStatus(status) {
		return nil, ErrInvalidStatus
	}

	if err := validateWindow(item.ItemType, status, in.StartAt, in.EndAt, time.Now().UTC()); err != nil {
		return nil, err
	}

	attendees, err := s.loadAttendees(ctx, in.Attendees)
	if err != nil {
		return nil, err
	}

	res := &model.Reservation{
		UserID:    in.UserID,
		ItemID:    in.ItemID,
		ItemType:  item.ItemType,
		StartAt:   in.StartAt.UTC(),
		EndAt:     in.EndAt.UTC(),
		Status:    status,
		Notes:     in.Notes,
		Attendees: attendees,
	}

	unlock := s.lockItem(in.ItemID)
	defer unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapped, err := overlapExists(tx, in.ItemID, res.StartAt, res.EndAt, "")
		if err != nil {
			return err
		}
		if overlapped {
			return ErrOverlap
		}
		return tx.Create(res).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateReservation applies a partial update. The status in the patch decides
// which checks run: a completion rewrites endAt to the next 10-minute slot
// with no further checks, a cancellation always succeeds, and an ordinary
// reserved-state edit revalidates the window and the overlap predicate
// excluding the reservation itself.
func (s *gormStore) UpdateReservation(ctx context.Context, id string, p ReservationPatch) (*model.Reservation, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var res model.Reservation
	err := s.db.WithContext(ctx).First(&res, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reservation %s: %w", id, err)
	}

	finalStart, finalEnd := res.StartAt, res.EndAt
	if p.StartAt != nil {
		finalStart = p.StartAt.UTC()
	}
	if p.EndAt != nil {
		finalEnd = p.EndAt.UTC()
	}

	status := res.Status
	if p.Status != nil {
		if !model.ValidReservationStatus(*p.Status) {
			return nil, ErrInvalidStatus
		}
		// completed and canceled are terminal.
		if res.Status != model.ReservationStatusReserved && *p.Status != res.Status {
			return nil, ErrStatusFinalized
		}
		status = *p.Status
	}

	now := time.Now().UTC()
	checkOverlap := false
	switch {
	case p.Status != nil && *p.Status == model.ReservationStatusCompleted:
		finalEnd = timeutil.NextSlot(now)
	case status == model.ReservationStatusCanceled, status == model.ReservationStatusCompleted:
		// Terminal states bypass all time validation.
	default:
		if err := validateWindow(res.ItemType, status, finalStart, finalEnd, now); err != nil {
			return nil, err
		}
		checkOverlap = true
	}

	var attendees []model.User
	if p.Attendees != nil {
		attendees, err = s.loadAttendees(ctx, *p.Attendees)
		if err != nil {
			return nil, err
		}
	}

	unlock := s.lockItem(res.ItemID)
	defer unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if checkOverlap {
			overlapped, err := overlapExists(tx, res.ItemID, finalStart, finalEnd, res.ID)
			if err != nil {
				return err
			}
			if overlapped {
				return ErrOverlap
			}
		}

		res.StartAt = finalStart
		res.EndAt = finalEnd
		res.Status = status
		if p.Notes != nil {
			res.Notes = *p.Notes
		}
		if err := tx.Model(&res).Updates(map[string]any{
			"start_at": res.StartAt,
			"end_at":   res.EndAt,
			"status":   res.Status,
			"notes":    res.Notes,
		}).Error; err != nil {
			return fmt.Errorf("update reservation %s: %w", id, err)
		}

		if p.Attendees != nil {
			if err := tx.Model(&res).Association("Attendees").Replace(attendees); err != nil {
				return fmt.Errorf("replace attendees for %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetReservation(ctx, id)
}

// GetReservation loads a reservation with its user, item, and attendees.
func (s *gormStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var res model.Reservation
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Item").Preload("Attendees").
		First(&res, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reservation %s: %w", id, err)
	}
	return &res, nil
}

// DeleteReservation is the administrative hard-delete path, distinct from
// cancellation.
func (s *gormStore) DeleteReservation(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res model.Reservation
		err := tx.First(&res, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup reservation %s: %w", id, err)
		}

		if err := tx.Model(&res).Association("Attendees").Clear(); err != nil {
			return fmt.Errorf("clear attendees for %s: %w", id, err)
		}
		return tx.Delete(&res).Error
	})
}

// UserReservationsOn returns a user's reservations whose start falls on the
// given KST calendar day, ordered by item type then start time.
func (s *gormStore) UserReservationsOn(ctx context.Context, userID string, day time.Time) ([]model.Reservation, error) {
	if !model.IsValidID(userID) {
		return nil, ErrInvalidID
	}

	startOfDay, endOfDay := timeutil.DayBounds(day)

	reservations := make([]model.Reservation, 0)
	err := s.db.WithContext(ctx).
		Preload("Item").Preload("Attendees").
		Where("user_id = ? AND start_at >= ? AND start_at <= ?", userID, startOfDay, endOfDay).
		Order("item_type, start_at").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("user reservations for %s: %w", userID, err)
	}
	return reservations, nil
}

// ReservationsByTypeAndDate returns reservations for an item type whose
// interval overlaps the given KST calendar day, optionally filtered by
// status, ordered by status then start time.
func (s *gormStore) ReservationsByTypeAndDate(ctx context.Context, itemType string, day time.Time, status string) ([]model.Reservation, error) {
	if !model.ValidItemType(itemType) {
		return nil, ErrInvalidItemType
	}
	if status != "" && !model.ValidReservationStatus(status) {
		return nil, ErrInvalidStatus
	}

	var itemCount int64
	if err := s.db.WithContext(ctx).Model(&model.Item{}).Where("item_type = ?", itemType).Count(&itemCount).Error; err != nil {
		return nil, fmt.Errorf("count %s items: %w", itemType, err)
	}
	if itemCount == 0 {
		return nil, ErrItemNotFound
	}

	startOfDay, endOfDay := timeutil.DayBounds(day)

	q := s.db.WithContext(ctx).
		Preload("User").Preload("Item").Preload("Attendees").
		Where("item_type = ?", itemType).
		Where("start_at <= ? AND end_at >= ?", endOfDay, startOfDay)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	reservations := make([]model.Reservation, 0)
	if err := q.Order("status, start_at").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("%s reservations: %w", itemType, err)
	}
	return reservations, nil
}
