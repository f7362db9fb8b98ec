package store

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"booking-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Identity & directory
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]model.User, error)
	CreateUser(ctx context.Context, in UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id string, p UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListTeams(ctx context.Context, sortOption string) ([]model.Team, error)
	CreateTeam(ctx context.Context, name string) (*model.Team, error)
	RenameTeam(ctx context.Context, id, name string) (*model.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	// Resource catalog
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name, itemType string) (*model.Category, error)
	RenameCategory(ctx context.Context, id, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListItems(ctx context.Context, itemType string) ([]model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	CreateItem(ctx context.Context, in ItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, p ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	// Reservation engine
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	CreateReservation(ctx context.Context, in ReservationInput) (*model.Reservation, error)
	UpdateReservation(ctx context.Context, id string, p ReservationPatch) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	UserReservationsOn(ctx context.Context, userID string, day time.Time) ([]model.Reservation, error)
	ReservationsByTypeAndDate(ctx context.Context, itemType string, day time.Time, status string) ([]model.Reservation, error)

	// Push subscriptions
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB

	// itemLocks serializes the overlap-check-then-write sequence per item so
	// two concurrent bookings of the same window cannot both pass the check.
	itemLocks sync.Map // itemID -> *sync.Mutex
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// lockItem takes the advisory lock for an item and returns the release func.
func (s *gormStore) lockItem(itemID string) func() {
	v, _ := s.itemLocks.LoadOrStore(itemID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
