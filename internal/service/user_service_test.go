package service

import (
	"context"
	"strings"
	"testing"

	"socialconnect/internal/models"
	"socialconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(userRepo *userRepoStub, profileRepo *profileRepoStub, followRepo *followRepoStub, store *storeStub, isAdmin AdminChecker) *UserService {
	return NewUserService(userRepo, profileRepo, followRepo, store, 0, isAdmin)
}

func TestUpdateProfile(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("updates bio and privacy", func(t *testing.T) {
		var saved *models.Profile
		profileRepo := noopProfileRepo()
		profileRepo.updateFn = func(_ context.Context, profile *models.Profile) error {
			saved = profile
			return nil
		}
		svc := newUserService(noopUserRepo(), profileRepo, noopFollowRepo(), noopStore(), adminNever)

		profile, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:  1,
			Bio:     str("hello world"),
			Privacy: str("followers"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hello world", profile.Bio)
		assert.Equal(t, models.PrivacyFollowers, profile.Privacy)
		require.NotNil(t, saved)
	})

	t.Run("rejects bio over the limit", func(t *testing.T) {
		svc := newUserService(noopUserRepo(), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    str(strings.Repeat("a", 161)),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "bio", appErr.Field)
	})

	t.Run("rejects unknown privacy mode", func(t *testing.T) {
		svc := newUserService(noopUserRepo(), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:  1,
			Privacy: str("friends"),
		})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("uploads avatar and records URL", func(t *testing.T) {
		store := &storeStub{
			saveFn: func(_ context.Context, key, _ string, _ []byte) (string, error) {
				assert.True(t, strings.HasPrefix(key, "avatars/1/"))
				return "https://cdn.example.com/" + key, nil
			},
		}
		svc := newUserService(noopUserRepo(), noopProfileRepo(), noopFollowRepo(), store, adminNever)

		profile, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Avatar: pngBytes(t),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(profile.AvatarURL, "https://cdn.example.com/avatars/1/"))
	})

	t.Run("bad avatar leaves profile unmodified", func(t *testing.T) {
		profileRepo := noopProfileRepo()
		profileRepo.updateFn = func(_ context.Context, _ *models.Profile) error {
			t.Fatal("update must not be called")
			return nil
		}
		svc := newUserService(noopUserRepo(), profileRepo, noopFollowRepo(), noopStore(), adminNever)

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    str("fine"),
			Avatar: []byte("definitely not an image"),
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "avatar", appErr.Field)
	})
}

func TestGetUserProfileVisibility(t *testing.T) {
	userWithPrivacy := func(privacy models.Privacy) *userRepoStub {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:       id,
				Username: "target",
				Profile:  &models.Profile{UserID: id, Privacy: privacy},
			}, nil
		}
		return repo
	}

	t.Run("public profile visible to anonymous", func(t *testing.T) {
		svc := newUserService(userWithPrivacy(models.PrivacyPublic), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		user, err := svc.GetUserProfile(context.Background(), 0, 7)
		require.NoError(t, err)
		assert.EqualValues(t, 7, user.ID)
	})

	t.Run("private profile requires login", func(t *testing.T) {
		svc := newUserService(userWithPrivacy(models.PrivacyPrivate), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, err := svc.GetUserProfile(context.Background(), 0, 7)
		assertAppErrorCode(t, err, "UNAUTHORIZED")
	})

	t.Run("private profile denied even to followers", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.isFollowingFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		svc := newUserService(userWithPrivacy(models.PrivacyPrivate), noopProfileRepo(), followRepo, noopStore(), adminNever)

		_, err := svc.GetUserProfile(context.Background(), 3, 7)
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("private profile visible to owner", func(t *testing.T) {
		svc := newUserService(userWithPrivacy(models.PrivacyPrivate), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, err := svc.GetUserProfile(context.Background(), 7, 7)
		require.NoError(t, err)
	})

	t.Run("private profile visible to admin", func(t *testing.T) {
		svc := newUserService(userWithPrivacy(models.PrivacyPrivate), noopProfileRepo(), noopFollowRepo(), noopStore(), adminAlways)
		_, err := svc.GetUserProfile(context.Background(), 3, 7)
		require.NoError(t, err)
	})

	t.Run("followers profile hidden from non-followers", func(t *testing.T) {
		svc := newUserService(userWithPrivacy(models.PrivacyFollowers), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, err := svc.GetUserProfile(context.Background(), 3, 7)
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("followers profile visible once following", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.isFollowingFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
			return followerID == 3 && followingID == 7, nil
		}
		svc := newUserService(userWithPrivacy(models.PrivacyFollowers), noopProfileRepo(), followRepo, noopStore(), adminNever)

		_, err := svc.GetUserProfile(context.Background(), 3, 7)
		require.NoError(t, err)
	})
}

func TestSearchUsers(t *testing.T) {
	t.Run("non-admin requires a query", func(t *testing.T) {
		svc := newUserService(noopUserRepo(), noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)
		_, _, err := svc.SearchUsers(context.Background(), SearchUsersInput{RequesterID: 1})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("non-admin search is scoped to the requester", func(t *testing.T) {
		var got repository.SearchOptions
		userRepo := noopUserRepo()
		userRepo.searchFn = func(_ context.Context, opts repository.SearchOptions) ([]models.UserSummary, int64, error) {
			got = opts
			return []models.UserSummary{{ID: 2, Username: "bob"}}, 1, nil
		}
		svc := newUserService(userRepo, noopProfileRepo(), noopFollowRepo(), noopStore(), adminNever)

		results, total, err := svc.SearchUsers(context.Background(), SearchUsersInput{
			RequesterID: 1,
			Query:       "bo",
			Limit:       20,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, results, 1)
		assert.EqualValues(t, 1, got.RequesterID)
		assert.False(t, got.Unrestricted)
	})

	t.Run("admin searches unrestricted without a query", func(t *testing.T) {
		var got repository.SearchOptions
		userRepo := noopUserRepo()
		userRepo.searchFn = func(_ context.Context, opts repository.SearchOptions) ([]models.UserSummary, int64, error) {
			got = opts
			return nil, 0, nil
		}
		svc := newUserService(userRepo, noopProfileRepo(), noopFollowRepo(), noopStore(), adminAlways)

		_, _, err := svc.SearchUsers(context.Background(), SearchUsersInput{RequesterID: 1})
		require.NoError(t, err)
		assert.True(t, got.Unrestricted)
	})
}
