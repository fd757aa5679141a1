package repository

import (
	"context"
	"errors"
	"strings"

	"socialconnect/internal/cache"
	"socialconnect/internal/counter"
	"socialconnect/internal/models"

	"gorm.io/gorm"
)

// PostListOptions narrows and orders a post listing.
type PostListOptions struct {
	Limit           int
	Offset          int
	Search          string // matches content or author username
	Ordering        string // created_at, like_count or comment_count, "-" prefix for descending
	AuthorID        uint   // restrict to one author when non-zero
	Category        string
	IncludeInactive bool // admin listings only
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Deactivate(ctx context.Context, id uint) error
}

type postRepository struct {
	db       *gorm.DB
	counters counter.Engine
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, counters: counter.New()}
}

// Create inserts the post and refreshes the author's posts_count in the same
// transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := r.counters.ProfilePostsCount(tx, post.UserID); err != nil {
			return models.NewInternalError(err)
		}
		cache.InvalidateProfile(ctx, post.UserID)
		return nil
	})
}

// GetByID returns the post regardless of its active flag. Callers decide
// whether an inactive post is visible to the requester.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// List returns a page of posts and the total row count for the same filters.
func (r *postRepository) List(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	if !opts.IncludeInactive {
		q = q.Where("posts.is_active = ?", true)
	}
	if opts.AuthorID != 0 {
		q = q.Where("posts.user_id = ?", opts.AuthorID)
	}
	if opts.Category != "" {
		q = q.Where("posts.category = ?", opts.Category)
	}
	if opts.Search != "" {
		like := "%" + strings.ToLower(opts.Search) + "%"
		q = q.Joins("JOIN users ON users.id = posts.user_id").
			Where("LOWER(posts.content) LIKE ? OR LOWER(users.username) LIKE ?", like, like)
	}

	// Count on a fresh session so the finisher does not pollute the chain.
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	err := q.Order(orderClause(opts.Ordering)).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Preload("User").
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// orderClause maps the API ordering parameter onto a safe ORDER BY clause.
// Unknown values fall back to newest-first.
func orderClause(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	column := strings.TrimPrefix(ordering, "-")

	switch column {
	case "created_at", "like_count", "comment_count":
	default:
		return "posts.created_at DESC"
	}

	if desc {
		return "posts." + column + " DESC"
	}
	return "posts." + column + " ASC"
}

// Update persists the editable columns only. The counter columns are owned
// by the recompute engine and must not be written back from a stale read.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Model(post).
		Select("content", "category", "image_url", "updated_at").
		Updates(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Deactivate soft-deletes the post. The row survives and the author's
// posts_count is unchanged since it counts all posts.
func (r *postRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
