package models

import "time"

// PostCategory classifies a post.
type PostCategory string

const (
	// PostCategoryGeneral is the default category.
	PostCategoryGeneral PostCategory = "general"
	// PostCategoryAnnouncement marks a post as an announcement.
	PostCategoryAnnouncement PostCategory = "announcement"
	// PostCategoryQuestion marks a post as a question.
	PostCategoryQuestion PostCategory = "question"
)

// ValidPostCategory reports whether c is a supported post category.
func ValidPostCategory(c PostCategory) bool {
	switch c {
	case PostCategoryGeneral, PostCategoryAnnouncement, PostCategoryQuestion:
		return true
	}
	return false
}

// Post is a user-authored entry, optionally carrying an image.
// Posts are deactivated via IsActive rather than deleted. LikeCount and
// CommentCount are denormalized and maintained by the counter engine.
type Post struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Content      string       `gorm:"size:280" json:"content"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	User         *User        `gorm:"foreignKey:UserID" json:"author,omitempty"`
	ImageURL     string       `json:"image_url"`
	Category     PostCategory `gorm:"type:varchar(20);not null;default:'general'" json:"category"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	LikeCount    uint         `gorm:"not null;default:0" json:"like_count"`
	CommentCount uint         `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
