// Package seed creates demo data for development databases. Entities are
// written through the repository layer so the denormalized counters stay
// consistent with the rows the seeder creates.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"socialconnect/internal/models"
	"socialconnect/internal/repository"
	"socialconnect/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password shared by all seeded accounts.
const SeedPassword = "Seed-Password-123"

// Factory builds domain entities and persists them through the repositories.
type Factory struct {
	db           *gorm.DB
	users        repository.UserRepository
	posts        repository.PostRepository
	follows      repository.FollowRepository
	interactions repository.InteractionRepository
	profiles     repository.ProfileRepository

	rand         *rand.Rand
	passwordHash string
}

// NewFactory creates a Factory bound to the provided Gorm DB. The shared
// password is hashed once so large seeds do not pay bcrypt per user.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Factory{
		db:           db,
		users:        repository.NewUserRepository(db),
		posts:        repository.NewPostRepository(db),
		follows:      repository.NewFollowRepository(db),
		interactions: repository.NewInteractionRepository(db),
		profiles:     repository.NewProfileRepository(db),
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// CreateUser persists a generated user. The index keeps usernames unique
// across a run; overrides may adjust the user before saving.
func (f *Factory) CreateUser(ctx context.Context, index int, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), index),
		Email:    gofakeit.Email(),
		Password: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FillProfile populates the auto-created profile with generated details and
// a weighted random privacy mode.
func (f *Factory) FillProfile(ctx context.Context, userID uint) error {
	profile, err := f.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	profile.Bio = clip(gofakeit.Sentence(8), validation.MaxBioLen)
	profile.Location = gofakeit.City()
	profile.Website = gofakeit.URL()
	profile.Privacy = f.randomPrivacy()
	if f.rand.Float32() < 0.6 {
		profile.AvatarURL = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
	}

	return f.profiles.Update(ctx, profile)
}

// CreatePost persists a generated post for the author with a created_at
// spread over the past maxDays days.
func (f *Factory) CreatePost(ctx context.Context, authorID uint, maxDays int) (*models.Post, error) {
	if maxDays <= 0 {
		maxDays = 90
	}

	post := &models.Post{
		UserID:    authorID,
		Content:   clip(gofakeit.Paragraph(1, 3, 8, " "), validation.MaxPostContentLen),
		Category:  f.randomCategory(),
		IsActive:  true,
		CreatedAt: f.pastTime(maxDays),
	}
	if f.rand.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Follow creates a follow edge, ignoring duplicates.
func (f *Factory) Follow(ctx context.Context, followerID, followingID uint) error {
	_, err := f.follows.Follow(ctx, followerID, followingID)
	return err
}

// Like records a like, ignoring duplicates.
func (f *Factory) Like(ctx context.Context, userID, postID uint) error {
	_, err := f.interactions.Like(ctx, userID, postID)
	return err
}

// CreateComment persists a generated comment on the post.
func (f *Factory) CreateComment(ctx context.Context, userID, postID uint) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:   userID,
		PostID:   postID,
		Content:  clip(gofakeit.Sentence(10), validation.MaxCommentContentLen),
		IsActive: true,
	}
	if err := f.interactions.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// randomPrivacy returns public most of the time with a minority of private
// and followers-only profiles, roughly matching real usage.
func (f *Factory) randomPrivacy() models.Privacy {
	switch roll := f.rand.Float32(); {
	case roll < 0.70:
		return models.PrivacyPublic
	case roll < 0.85:
		return models.PrivacyFollowers
	default:
		return models.PrivacyPrivate
	}
}

func (f *Factory) randomCategory() models.PostCategory {
	categories := []models.PostCategory{
		models.PostCategoryGeneral,
		models.PostCategoryGeneral,
		models.PostCategoryGeneral,
		models.PostCategoryQuestion,
		models.PostCategoryAnnouncement,
	}
	return categories[f.rand.Intn(len(categories))]
}

func (f *Factory) pastTime(maxDays int) time.Time {
	back := time.Duration(f.rand.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rand.Intn(24))*time.Hour +
		time.Duration(f.rand.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
