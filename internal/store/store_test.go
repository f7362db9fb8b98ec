package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booking-backend/internal/model"
)

// newTestStore opens a fresh in-memory SQLite database for one test. The
// shared-cache named DSN keeps the database alive across the connections in
// gorm's pool.
func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.Category{},
		&model.Item{},
		&model.Reservation{},
		&model.PushSubscription{},
	))
	return NewGormStore(db)
}

func seedUser(t *testing.T, s Store, name string) *model.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), UserInput{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", strings.ToLower(name)),
	})
	require.NoError(t, err)
	return user
}

func seedCategory(t *testing.T, s Store, name, itemType string) *model.Category {
	t.Helper()
	category, err := s.CreateCategory(context.Background(), name, itemType)
	require.NoError(t, err)
	return category
}

func seedRoom(t *testing.T, s Store, name string) *model.Item {
	t.Helper()
	category := seedCategory(t, s, name+" category", model.ItemTypeRoom)
	capacity := 4
	item, err := s.CreateItem(context.Background(), ItemInput{
		ItemType:   model.ItemTypeRoom,
		Name:       name,
		CategoryID: &category.ID,
		Capacity:   &capacity,
	})
	require.NoError(t, err)
	return item
}

func seedSeat(t *testing.T, s Store, name string) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), ItemInput{
		ItemType: model.ItemTypeSeat,
		Name:     name,
	})
	require.NoError(t, err)
	return item
}
