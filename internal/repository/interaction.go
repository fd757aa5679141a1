package repository

import (
	"context"
	"errors"

	"socialconnect/internal/cache"
	"socialconnect/internal/counter"
	"socialconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository defines persistence operations for likes and comments.
type InteractionRepository interface {
	// Like records the like and returns false when it already existed.
	Like(ctx context.Context, userID, postID uint) (bool, error)
	// Unlike removes the like and returns false when there was none.
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	DeactivateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error)
}

type interactionRepository struct {
	db       *gorm.DB
	counters counter.Engine
}

// NewInteractionRepository returns a new InteractionRepository implementation.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db, counters: counter.New()}
}

func (r *interactionRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&models.Like{UserID: userID, PostID: postID})
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		created = result.RowsAffected > 0
		if !created {
			// Idempotent: a second like leaves the count untouched.
			return nil
		}
		return r.counters.PostLikeCount(tx, postID)
	})
	if err != nil {
		return false, err
	}
	if created {
		cache.InvalidatePost(ctx, postID)
	}
	return created, nil
}

func (r *interactionRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		removed = result.RowsAffected > 0
		if !removed {
			return nil
		}
		return r.counters.PostLikeCount(tx, postID)
	})
	if err != nil {
		return false, err
	}
	if removed {
		cache.InvalidatePost(ctx, postID)
	}
	return removed, nil
}

func (r *interactionRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CreateComment inserts the comment and refreshes the post's comment_count in
// the same transaction.
func (r *interactionRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		return r.counters.PostCommentCount(tx, comment.PostID)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *interactionRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// DeactivateComment soft-deletes the comment; the post's comment_count only
// counts active rows, so it is recomputed in the same transaction.
func (r *interactionRepository) DeactivateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Comment{}).
			Where("id = ? AND is_active = ?", comment.ID, true).
			Update("is_active", false)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", comment.ID)
		}
		return r.counters.PostCommentCount(tx, comment.PostID)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// ListComments returns a page of active comments for the post, newest first,
// plus the total active count.
func (r *interactionRepository) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND is_active = ?", postID, true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	err := base.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}
