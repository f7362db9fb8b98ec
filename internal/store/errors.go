package store

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers translate these to HTTP statuses with errors.Is;
// everything below wraps exactly one of them.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidID         = fmt.Errorf("%w: malformed id", ErrInvalidInput)
	ErrInvalidItemType   = fmt.Errorf("%w: unknown item type", ErrInvalidInput)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown status", ErrInvalidInput)
	ErrMissingField      = fmt.Errorf("%w: missing required field", ErrInvalidInput)
	ErrTooLong           = fmt.Errorf("%w: value exceeds maximum length", ErrInvalidInput)
	ErrWrongVariantField = fmt.Errorf("%w: field not allowed for this item type", ErrInvalidInput)
	ErrBadGranularity    = fmt.Errorf("%w: timestamps must be on 10-minute increments", ErrInvalidInput)
	ErrStartNotBeforeEnd = fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	ErrStartTooOld       = fmt.Errorf("%w: startAt is more than 10 minutes in the past", ErrInvalidInput)

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrTeamNotFound         = fmt.Errorf("team %w", ErrNotFound)
	ErrItemNotFound         = fmt.Errorf("item %w", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("category %w", ErrNotFound)
	ErrReservationNotFound  = fmt.Errorf("reservation %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)

	ErrOverlap          = fmt.Errorf("%w: overlapping reservation", ErrConflict)
	ErrStatusFinalized  = fmt.Errorf("%w: reservation already finalized", ErrConflict)
	ErrDuplicateName    = fmt.Errorf("%w: name already in use", ErrConflict)
	ErrDuplicateEmail   = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrItemReserved     = fmt.Errorf("%w: item has active reservations", ErrConflict)
	ErrCategoryReserved = fmt.Errorf("%w: sub-items have reservations", ErrConflict)
)
