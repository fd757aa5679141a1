// Package counter keeps the denormalized count columns on posts and
// profiles synchronized with their source tables.
//
// The engine uses the recompute strategy: every method overwrites the stored
// counter with a COUNT(*) over the live relationship table. Recomputing is
// idempotent and self-healing, and keeps a single writer for each counter
// column. Callers must invoke the engine inside the same transaction as the
// row write that made the counter stale, so the counter is never visible
// without its triggering row.
package counter

import (
	"socialconnect/internal/middleware"

	"gorm.io/gorm"
)

// Engine recomputes denormalized counters. It carries no state; the
// transaction handle is passed per call so the engine always participates in
// the caller's transaction.
type Engine struct{}

// New returns a counter engine.
func New() Engine {
	return Engine{}
}

// PostLikeCount recomputes posts.like_count from the likes table.
func (Engine) PostLikeCount(tx *gorm.DB, postID uint) error {
	middleware.CounterRecomputes.WithLabelValues("post_likes").Inc()
	return tx.Exec(
		`UPDATE posts SET like_count = (SELECT COUNT(*) FROM likes WHERE likes.post_id = ?) WHERE id = ?`,
		postID, postID,
	).Error
}

// PostCommentCount recomputes posts.comment_count from the active rows of
// the comments table. Soft-deleted comments do not count.
func (Engine) PostCommentCount(tx *gorm.DB, postID uint) error {
	middleware.CounterRecomputes.WithLabelValues("post_comments").Inc()
	return tx.Exec(
		`UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE comments.post_id = ? AND comments.is_active) WHERE id = ?`,
		postID, postID,
	).Error
}

// ProfileFollowCounts recomputes the follower side and the following side of
// a follow edge: following_count on the follower's profile and
// followers_count on the followee's profile.
func (Engine) ProfileFollowCounts(tx *gorm.DB, followerID, followingID uint) error {
	middleware.CounterRecomputes.WithLabelValues("profile_follows").Inc()
	if err := tx.Exec(
		`UPDATE profiles SET following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = ?) WHERE user_id = ?`,
		followerID, followerID,
	).Error; err != nil {
		return err
	}
	return tx.Exec(
		`UPDATE profiles SET followers_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = ?) WHERE user_id = ?`,
		followingID, followingID,
	).Error
}

// ProfilePostsCount recomputes profiles.posts_count for the author. All
// posts count, active or not.
func (Engine) ProfilePostsCount(tx *gorm.DB, authorID uint) error {
	middleware.CounterRecomputes.WithLabelValues("profile_posts").Inc()
	return tx.Exec(
		`UPDATE profiles SET posts_count = (SELECT COUNT(*) FROM posts WHERE posts.user_id = ?) WHERE user_id = ?`,
		authorID, authorID,
	).Error
}
