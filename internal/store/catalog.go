package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"booking-backend/internal/model"
)

// Column limits mirrored from the model's size tags. SQLite ignores varchar
// lengths, so the store enforces them before writing.
const (
	maxItemNameLen        = 50
	maxItemDescriptionLen = 200
)

// ItemInput carries the fields for a new catalog item. Variant fields that do
// not belong to the item type are rejected.
type ItemInput struct {
	ItemType    string
	Name        string
	Description string
	Status      string
	ImageURL    string
	CategoryID  *string
	Location    *string
	Capacity    *int
	UserID      *string
}

// ItemPatch carries a partial item update; nil fields are left untouched.
type ItemPatch struct {
	Name        *string
	Description *string
	Status      *string
	ImageURL    *string
	CategoryID  *string
	Location    *string
	Capacity    *int
	UserID      *string
}

// validVariantFields rejects fields that belong to a different item variant.
func validVariantFields(itemType string, categoryID, location *string, capacity *int, userID *string) error {
	switch itemType {
	case model.ItemTypeRoom:
		if userID != nil {
			return ErrWrongVariantField
		}
	case model.ItemTypeSeat:
		if categoryID != nil || location != nil || capacity != nil {
			return ErrWrongVariantField
		}
	case model.ItemTypeEquipment:
		if location != nil || capacity != nil || userID != nil {
			return ErrWrongVariantField
		}
	default:
		return ErrInvalidItemType
	}
	return nil
}

// itemNameTaken reports whether another item of any type already uses name.
func itemNameTaken(tx *gorm.DB, name, excludeID string) (bool, error) {
	q := tx.Model(&model.Item{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("item name check: %w", err)
	}
	return n > 0, nil
}

func (s *gormStore) categoryExists(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("category check: %w", err)
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ListItems returns all items, or those of one type. Room and equipment rows
// come with their category populated, seats with their assigned user.
func (s *gormStore) ListItems(ctx context.Context, itemType string) ([]model.Item, error) {
	if itemType != "" && !model.ValidItemType(itemType) {
		return nil, ErrInvalidItemType
	}

	q := s.db.WithContext(ctx).Preload("Category").Preload("User")
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}

	items := make([]model.Item, 0)
	if err := q.Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *gormStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var item model.Item
	err := s.db.WithContext(ctx).Preload("Category").Preload("User").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup item %s: %w", id, err)
	}
	return &item, nil
}

// CreateItem persists a new item after validating the variant field set,
// required fields, and the cross-type name uniqueness invariant.
func (s *gormStore) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingField
	}
	if utf8.RuneCountInString(name) > maxItemNameLen {
		return nil, fmt.Errorf("item name %w", ErrTooLong)
	}
	if utf8.RuneCountInString(in.Description) > maxItemDescriptionLen {
		return nil, fmt.Errorf("item description %w", ErrTooLong)
	}
	if in.Status != "" && !model.ValidItemStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if err := validVariantFields(in.ItemType, in.CategoryID, in.Location, in.Capacity, in.UserID); err != nil {
		return nil, err
	}

	item := model.Item{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ItemType:    in.ItemType,
		Status:      in.Status,
	}
	if item.Status == "" {
		item.Status = model.ItemStatusAvailable
	}

	switch in.ItemType {
	case model.ItemTypeRoom:
		if in.CategoryID == nil || in.Capacity == nil {
			return nil, ErrMissingField
		}
		if *in.Capacity < 1 {
			return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
		}
		if err := s.categoryExists(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = in.CategoryID
		item.Capacity = *in.Capacity
		if in.Location != nil {
			item.Location = *in.Location
		}
	case model.ItemTypeSeat:
		if in.UserID != nil {
			if !model.IsValidID(*in.UserID) {
				return nil, ErrInvalidID
			}
			item.UserID = in.UserID
		}
	case model.ItemTypeEquipment:
		if in.CategoryID == nil {
			return nil, ErrMissingField
		}
		if err := s.categoryExists(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = in.CategoryID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := itemNameTaken(tx, name, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies a partial update using the field set of the item's own
// type; fields belonging to another variant are rejected.
func (s *gormStore) UpdateItem(ctx context.Context, id string, p ItemPatch) (*model.Item, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var item model.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup item %s: %w", id, err)
	}

	if err := validVariantFields(item.ItemType, p.CategoryID, p.Location, p.Capacity, p.UserID); err != nil {
		return nil, err
	}
	if p.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Name)) > maxItemNameLen {
		return nil, fmt.Errorf("item name %w", ErrTooLong)
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > maxItemDescriptionLen {
		return nil, fmt.Errorf("item description %w", ErrTooLong)
	}
	if p.Status != nil && !model.ValidItemStatus(*p.Status) {
		return nil, ErrInvalidStatus
	}
	if p.Capacity != nil && *p.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
	}
	if p.CategoryID != nil {
		if err := s.categoryExists(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
	}
	if p.UserID != nil && !model.IsValidID(*p.UserID) {
		return nil, ErrInvalidID
	}

	updates := map[string]any{}
	if p.Name != nil {
		updates["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if p.CategoryID != nil {
		updates["category_id"] = *p.CategoryID
	}
	if p.Location != nil {
		updates["location"] = *p.Location
	}
	if p.Capacity != nil {
		updates["capacity"] = *p.Capacity
	}
	if p.UserID != nil {
		updates["user_id"] = *p.UserID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Name != nil {
			taken, err := itemNameTaken(tx, updates["name"].(string), id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateName
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&item).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetItem(ctx, id)
}

// DeleteItem removes an item unless it still has reserved reservations.
func (s *gormStore) DeleteItem(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&model.Reservation{}).
			Where("item_id = ? AND status = ?", id, model.ReservationStatusReserved).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("reservation check for item %s: %w", id, err)
		}
		if n > 0 {
			return ErrItemReserved
		}

		res := tx.Delete(&model.Item{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete item %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}

// ListCategories returns all categories.
func (s *gormStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory persists a category. Only room and equipment items are
// categorized.
func (s *gormStore) CreateCategory(ctx context.Context, name, itemType string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingField
	}
	if itemType != model.ItemTypeRoom && itemType != model.ItemTypeEquipment {
		return nil, ErrInvalidItemType
	}

	category := model.Category{Name: name, ItemType: itemType}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Category{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return fmt.Errorf("category name check: %w", err)
		}
		if n > 0 {
			return ErrDuplicateName
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory changes a category's name.
func (s *gormStore) RenameCategory(ctx context.Context, id, name string) (*model.Category, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingField
	}

	var category model.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Category{}).Where("name = ? AND id <> ?", name, id).Count(&n).Error; err != nil {
			return fmt.Errorf("category name check: %w", err)
		}
		if n > 0 {
			return ErrDuplicateName
		}

		err := tx.First(&category, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup category %s: %w", id, err)
		}
		return tx.Model(&category).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory cascades to the category's items, but only when none of them
// is referenced by any reservation. The read-check-delete sequence spans two
// tables and runs inside a single transaction.
func (s *gormStore) DeleteCategory(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []string
		if err := tx.Model(&model.Item{}).Where("category_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return fmt.Errorf("collect items of category %s: %w", id, err)
		}

		if len(itemIDs) > 0 {
			var n int64
			if err := tx.Model(&model.Reservation{}).Where("item_id IN ?", itemIDs).Count(&n).Error; err != nil {
				return fmt.Errorf("reservation check for category %s: %w", id, err)
			}
			if n > 0 {
				return ErrCategoryReserved
			}

			if err := tx.Where("category_id = ?", id).Delete(&model.Item{}).Error; err != nil {
				return fmt.Errorf("delete items of category %s: %w", id, err)
			}
		}

		res := tx.Delete(&model.Category{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete category %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}
