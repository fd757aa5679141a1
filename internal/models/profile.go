package models

import "time"

// Privacy controls who may view a profile.
type Privacy string

const (
	// PrivacyPublic makes the profile visible to anyone.
	PrivacyPublic Privacy = "public"
	// PrivacyPrivate restricts the profile to its owner and admins.
	PrivacyPrivate Privacy = "private"
	// PrivacyFollowers restricts the profile to users who follow the owner.
	PrivacyFollowers Privacy = "followers"
)

// ValidPrivacy reports whether p is one of the supported privacy modes.
func ValidPrivacy(p Privacy) bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacyFollowers:
		return true
	}
	return false
}

// Profile holds the public-facing attributes of a user, one per account.
// The counter columns are denormalized and written only by the counter
// engine, never by handlers or services directly.
type Profile struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bio            string    `gorm:"size:160" json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	Website        string    `json:"website"`
	Location       string    `gorm:"size:100" json:"location"`
	Privacy        Privacy   `gorm:"type:varchar(20);not null;default:'public'" json:"privacy"`
	FollowersCount uint      `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount uint      `gorm:"not null;default:0" json:"following_count"`
	PostsCount     uint      `gorm:"not null;default:0" json:"posts_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
