// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"socialconnect/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, opts SearchOptions) ([]models.UserSummary, int64, error)
}

// SearchOptions scopes a profile search. Unless Unrestricted is set, results
// are limited to profiles the requester may view: public ones, their own,
// and followers-only profiles of users they follow.
type SearchOptions struct {
	Query        string
	RequesterID  uint // zero means anonymous
	Unrestricted bool // admin listings only
	Limit        int
	Offset       int
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and its profile in one transaction. Every user has
// exactly one profile from the moment it exists.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewValidationError("username or email is already taken")
			}
			return models.NewInternalError(err)
		}

		profile := &models.Profile{
			UserID:  user.ID,
			Privacy: models.PrivacyPublic,
		}
		if err := tx.Create(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		user.Profile = profile
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("username or email is already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Search finds users by username substring and returns summaries with the
// denormalized follow counts from their profiles, applying the visibility
// scope from opts.
func (r *userRepository) Search(ctx context.Context, opts SearchOptions) ([]models.UserSummary, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN profiles ON profiles.user_id = users.id")

	if opts.Query != "" {
		q = q.Where("LOWER(users.username) LIKE ?", "%"+strings.ToLower(opts.Query)+"%")
	}
	if !opts.Unrestricted {
		if opts.RequesterID == 0 {
			q = q.Where("profiles.privacy = ?", models.PrivacyPublic)
		} else {
			q = q.Where(
				"profiles.privacy = ? OR users.id = ? OR (profiles.privacy = ? AND EXISTS (SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.following_id = users.id))",
				models.PrivacyPublic, opts.RequesterID, models.PrivacyFollowers, opts.RequesterID,
			)
		}
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var summaries []models.UserSummary
	err := q.
		Select("users.id, users.username, users.email, profiles.followers_count, profiles.following_count").
		Order("users.username ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return summaries, total, nil
}

// isUniqueViolation detects unique constraint failures across Postgres and
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
