package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"socialconnect/internal/models"
	"socialconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listFn       func(context.Context, repository.PostListOptions) ([]models.Post, int64, error)
	updateFn     func(context.Context, *models.Post) error
	deactivateFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, opts repository.PostListOptions) ([]models.Post, int64, error) {
	return s.listFn(ctx, opts)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Deactivate(ctx context.Context, id uint) error {
	return s.deactivateFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Content: "hello", IsActive: true}, nil
		},
		listFn: func(_ context.Context, _ repository.PostListOptions) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:     func(_ context.Context, _ *models.Post) error { return nil },
		deactivateFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, repository.SearchOptions) ([]models.UserSummary, int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, opts repository.SearchOptions) ([]models.UserSummary, int64, error) {
	return s.searchFn(ctx, opts)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:       id,
				Username: "user",
				Profile:  &models.Profile{UserID: id, Privacy: models.PrivacyPublic},
			}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", 0)
		},
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", 0)
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		searchFn: func(_ context.Context, _ repository.SearchOptions) ([]models.UserSummary, int64, error) {
			return nil, 0, nil
		},
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID, Privacy: models.PrivacyPublic}, nil
		},
		updateFn: func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn      func(context.Context, uint, uint) (bool, error)
	unfollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followersFn   func(context.Context, uint, int, int) ([]models.UserSummary, int64, error)
	followingFn   func(context.Context, uint, int, int) ([]models.UserSummary, int64, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.unfollowFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	return s.followersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
	return s.followingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unfollowFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersFn: func(_ context.Context, _ uint, _, _ int) ([]models.UserSummary, int64, error) {
			return nil, 0, nil
		},
		followingFn: func(_ context.Context, _ uint, _, _ int) ([]models.UserSummary, int64, error) {
			return nil, 0, nil
		},
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	likeFn              func(context.Context, uint, uint) (bool, error)
	unlikeFn            func(context.Context, uint, uint) (bool, error)
	isLikedFn           func(context.Context, uint, uint) (bool, error)
	createCommentFn     func(context.Context, *models.Comment) error
	getCommentByIDFn    func(context.Context, uint) (*models.Comment, error)
	deactivateCommentFn func(context.Context, *models.Comment) error
	listCommentsFn      func(context.Context, uint, int, int) ([]models.Comment, int64, error)
}

func (s *interactionRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *interactionRepoStub) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.createCommentFn(ctx, comment)
}
func (s *interactionRepoStub) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getCommentByIDFn(ctx, id)
}
func (s *interactionRepoStub) DeactivateComment(ctx context.Context, comment *models.Comment) error {
	return s.deactivateCommentFn(ctx, comment)
}
func (s *interactionRepoStub) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	return s.listCommentsFn(ctx, postID, limit, offset)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		likeFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		createCommentFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getCommentByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1, Content: "hi", IsActive: true}, nil
		},
		deactivateCommentFn: func(_ context.Context, _ *models.Comment) error { return nil },
		listCommentsFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, int64, error) {
			return nil, 0, nil
		},
	}
}

// storeStub is a stub for media.Store.
type storeStub struct {
	saveFn func(ctx context.Context, key, contentType string, data []byte) (string, error)
}

func (s *storeStub) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return s.saveFn(ctx, key, contentType, data)
}

func noopStore() *storeStub {
	return &storeStub{
		saveFn: func(_ context.Context, key, _ string, _ []byte) (string, error) {
			return "/media/" + key, nil
		},
	}
}

// adminAlways and adminNever are canned AdminChecker implementations.
func adminAlways(_ context.Context, _ uint) (bool, error) { return true, nil }
func adminNever(_ context.Context, _ uint) (bool, error)  { return false, nil }

// pngBytes returns a tiny valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
