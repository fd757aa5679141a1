package service

import (
	"context"
	"testing"

	"socialconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	t.Run("creates the relationship", func(t *testing.T) {
		var gotFollower, gotFollowing uint
		followRepo := noopFollowRepo()
		followRepo.followFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
			gotFollower, gotFollowing = followerID, followingID
			return true, nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())

		require.NoError(t, svc.Follow(context.Background(), 1, 2))
		assert.EqualValues(t, 1, gotFollower)
		assert.EqualValues(t, 2, gotFollowing)
	})

	t.Run("rejects self-follow without touching the repository", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.followFn = func(_ context.Context, _, _ uint) (bool, error) {
			t.Fatal("follow must not be called")
			return false, nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())

		err := svc.Follow(context.Background(), 4, 4)
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects duplicate follow", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.followFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		svc := NewFollowService(followRepo, noopUserRepo())

		err := svc.Follow(context.Background(), 1, 2)
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing target is not found", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewFollowService(noopFollowRepo(), userRepo)

		err := svc.Follow(context.Background(), 1, 999)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestUnfollow(t *testing.T) {
	t.Run("removes the relationship", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())
		require.NoError(t, svc.Unfollow(context.Background(), 1, 2))
	})

	t.Run("unfollow without a relationship is not found", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.unfollowFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		svc := NewFollowService(followRepo, noopUserRepo())

		err := svc.Unfollow(context.Background(), 1, 2)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestFollowListings(t *testing.T) {
	summaries := []models.UserSummary{{ID: 2, Username: "bob"}, {ID: 3, Username: "carol"}}

	t.Run("followers", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.followersFn = func(_ context.Context, userID uint, limit, offset int) ([]models.UserSummary, int64, error) {
			assert.EqualValues(t, 1, userID)
			assert.Equal(t, 20, limit)
			return summaries, 2, nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())

		got, total, err := svc.Followers(context.Background(), 1, 20, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, got, 2)
	})

	t.Run("following", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.followingFn = func(_ context.Context, _ uint, _, _ int) ([]models.UserSummary, int64, error) {
			return summaries[:1], 1, nil
		}
		svc := NewFollowService(followRepo, noopUserRepo())

		got, total, err := svc.Following(context.Background(), 1, 20, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, got, 1)
	})

	t.Run("listing for a missing user is not found", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewFollowService(noopFollowRepo(), userRepo)

		_, _, err := svc.Followers(context.Background(), 999, 20, 0)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}
