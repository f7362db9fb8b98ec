package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking-backend/internal/auth"
	"booking-backend/internal/model"
)

// UserFilter narrows and orders a user listing.
type UserFilter struct {
	Role       string
	TeamID     string
	SortOption string // newest (default), oldest, alphabetical
}

// UserInput carries the fields for a new user.
type UserInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	TeamIDs      []string
	ProfileImage string
}

// UserPatch carries a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	Password     *string
	Role         *string
	TeamIDs      *[]string
	ProfileImage *string
}

// maxUserNameLen mirrors the name column's size tag, which SQLite does not
// enforce on its own.
const maxUserNameLen = 10

func sortClause(sortOption string) string {
	switch sortOption {
	case "alphabetical":
		return "name"
	case "oldest":
		return "created_at"
	default:
		return "created_at DESC"
	}
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var user model.User
	err := s.db.WithContext(ctx).Preload("Teams").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", id, err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Preload("Teams").First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return &user, nil
}

func (s *gormStore) ListUsers(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := s.db.WithContext(ctx).Preload("Teams")
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.TeamID != "" {
		q = q.Joins("JOIN user_teams ut ON ut.user_id = users.id").Where("ut.team_id = ?", f.TeamID)
	}

	users := make([]model.User, 0)
	if err := q.Order(sortClause(f.SortOption)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser persists a new user. The password, when present, is hashed
// before it is written; it is never stored in plaintext.
func (s *gormStore) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, ErrMissingField
	}
	if utf8.RuneCountInString(name) > maxUserNameLen {
		return nil, fmt.Errorf("user name %w", ErrTooLong)
	}

	user := model.User{
		Name:         name,
		Email:        email,
		Role:         in.Role,
		ProfileImage: in.ProfileImage,
	}
	if user.Role == "" {
		user.Role = model.RoleMember
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hashed
	}

	teams, err := s.loadTeams(ctx, in.TeamIDs)
	if err != nil {
		return nil, err
	}
	user.Teams = teams

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return fmt.Errorf("email check: %w", err)
		}
		if n > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update, rehashing the password when it changes.
func (s *gormStore) UpdateUser(ctx context.Context, id string, p UserPatch) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", id, err)
	}

	updates := map[string]any{}
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if utf8.RuneCountInString(trimmed) > maxUserNameLen {
			return nil, fmt.Errorf("user name %w", ErrTooLong)
		}
		updates["name"] = trimmed
	}
	if p.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Role != nil {
		updates["role"] = *p.Role
	}
	if p.ProfileImage != nil {
		updates["profile_image"] = *p.ProfileImage
	}
	if p.Password != nil && *p.Password != "" {
		hashed, err := auth.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = hashed
	}

	var teams []model.Team
	if p.TeamIDs != nil {
		teams, err = s.loadTeams(ctx, *p.TeamIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Email != nil {
			var n int64
			if err := tx.Model(&model.User{}).Where("email = ? AND id <> ?", updates["email"], id).Count(&n).Error; err != nil {
				return fmt.Errorf("email check: %w", err)
			}
			if n > 0 {
				return ErrDuplicateEmail
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return fmt.Errorf("update user %s: %w", id, err)
			}
		}
		if p.TeamIDs != nil {
			if err := tx.Model(&user).Association("Teams").Replace(teams); err != nil {
				return fmt.Errorf("replace teams for %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *gormStore) DeleteUser(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}

	res := s.db.WithContext(ctx).Select(clause.Associations).Delete(&model.User{ID: id})
	if res.Error != nil {
		return fmt.Errorf("delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// loadTeams resolves team ids, requiring every id to be well formed and to
// exist.
func (s *gormStore) loadTeams(ctx context.Context, ids []string) ([]model.Team, error) {
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

	var teams []model.Team
	if err := s.db.WithContext(ctx).Find(&teams, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	if len(teams) != len(uniq) {
		return nil, ErrTeamNotFound
	}
	return teams, nil
}

func (s *gormStore) ListTeams(ctx context.Context, sortOption string) ([]model.Team, error) {
	teams := make([]model.Team, 0)
	if err := s.db.WithContext(ctx).Order(sortClause(sortOption)).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *gormStore) CreateTeam(ctx context.Context, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingField
	}

	team := model.Team{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Team{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return fmt.Errorf("team name check: %w", err)
		}
		if n > 0 {
			return ErrDuplicateName
		}
		return tx.Create(&team).Error
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *gormStore) RenameTeam(ctx context.Context, id, name string) (*model.Team, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingField
	}

	var team model.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Team{}).Where("name = ? AND id <> ?", name, id).Count(&n).Error; err != nil {
			return fmt.Errorf("team name check: %w", err)
		}
		if n > 0 {
			return ErrDuplicateName
		}

		err := tx.First(&team, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup team %s: %w", id, err)
		}
		return tx.Model(&team).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *gormStore) DeleteTeam(ctx context.Context, id string) error {
	if !model.IsValidID(id) {
		return ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The join table hangs off the User side, so clear it by hand.
		if err := tx.Exec("DELETE FROM user_teams WHERE team_id = ?", id).Error; err != nil {
			return fmt.Errorf("clear team memberships for %s: %w", id, err)
		}

		res := tx.Delete(&model.Team{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete team %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTeamNotFound
		}
		return nil
	})
}
