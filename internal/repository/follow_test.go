package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepositoryFollow(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	t.Run("creates edge and recomputes both counters", func(t *testing.T) {
		created, err := repo.Follow(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, created)

		assert.EqualValues(t, 1, profileOf(t, db, alice.ID).FollowingCount)
		assert.EqualValues(t, 1, profileOf(t, db, bob.ID).FollowersCount)
		assert.EqualValues(t, 0, profileOf(t, db, alice.ID).FollowersCount)
	})

	t.Run("duplicate follow reports not created", func(t *testing.T) {
		created, err := repo.Follow(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, created)

		// Counters must not drift on the duplicate attempt.
		assert.EqualValues(t, 1, profileOf(t, db, bob.ID).FollowersCount)
	})

	t.Run("is following", func(t *testing.T) {
		following, err := repo.IsFollowing(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		reverse, err := repo.IsFollowing(context.Background(), bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, reverse)
	})
}

func TestFollowRepositoryUnfollow(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := repo.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	removed, err := repo.Unfollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.EqualValues(t, 0, profileOf(t, db, alice.ID).FollowingCount)
	assert.EqualValues(t, 0, profileOf(t, db, bob.ID).FollowersCount)

	t.Run("absent edge reports not removed", func(t *testing.T) {
		removed, err := repo.Unfollow(context.Background(), alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestFollowRepositoryListings(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := repo.Follow(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Follow(context.Background(), carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("followers of alice", func(t *testing.T) {
		followers, total, err := repo.Followers(context.Background(), alice.ID, 20, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, followers, 2)
		// Newest follower first.
		assert.Equal(t, "carol", followers[0].Username)
		assert.Equal(t, "bob", followers[1].Username)
	})

	t.Run("following of alice", func(t *testing.T) {
		following, total, err := repo.Following(context.Background(), alice.ID, 20, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].Username)
	})

	t.Run("summaries carry denormalized counts", func(t *testing.T) {
		followers, _, err := repo.Followers(context.Background(), alice.ID, 20, 0)
		require.NoError(t, err)
		for _, f := range followers {
			assert.EqualValues(t, 1, f.FollowingCount)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		followers, total, err := repo.Followers(context.Background(), alice.ID, 1, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, followers, 1)
	})
}
