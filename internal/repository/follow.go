package repository

import (
	"context"

	"socialconnect/internal/cache"
	"socialconnect/internal/counter"
	"socialconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for follow relationships.
type FollowRepository interface {
	// Follow creates the edge and returns false when it already existed.
	Follow(ctx context.Context, followerID, followingID uint) (bool, error)
	// Unfollow removes the edge and returns false when there was none.
	Unfollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error)
}

type followRepository struct {
	db       *gorm.DB
	counters counter.Engine
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, counters: counter.New()}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ON CONFLICT DO NOTHING makes the duplicate check race-free: two
		// concurrent follows insert at most one row.
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&models.Follow{FollowerID: followerID, FollowingID: followingID})
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		created = result.RowsAffected > 0
		if !created {
			return nil
		}
		return r.counters.ProfileFollowCounts(tx, followerID, followingID)
	})
	if err != nil {
		return false, err
	}
	if created {
		cache.InvalidateProfile(ctx, followerID)
		cache.InvalidateProfile(ctx, followingID)
	}
	return created, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		removed = result.RowsAffected > 0
		if !removed {
			return nil
		}
		return r.counters.ProfileFollowCounts(tx, followerID, followingID)
	})
	if err != nil {
		return false, err
	}
	if removed {
		cache.InvalidateProfile(ctx, followerID)
		cache.InvalidateProfile(ctx, followingID)
	}
	return removed, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Followers lists the users following userID, newest follower first.
func (r *followRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	return r.listEdge(ctx, "follows.following_id", "follows.follower_id", userID, limit, offset)
}

// Following lists the users userID follows, newest first.
func (r *followRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	return r.listEdge(ctx, "follows.follower_id", "follows.following_id", userID, limit, offset)
}

func (r *followRepository) listEdge(ctx context.Context, whereColumn, joinColumn string, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where(whereColumn+" = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var summaries []models.UserSummary
	err := base.
		Select("users.id, users.username, users.email, profiles.followers_count, profiles.following_count").
		Joins("JOIN users ON users.id = "+joinColumn).
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return summaries, total, nil
}
