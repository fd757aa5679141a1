package repository

import (
	"context"
	"testing"

	"socialconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	user := createTestUser(t, db, "walter")

	profile, err := repo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)

	profile.Bio = "keeps bees"
	profile.Location = "Vermont"
	profile.Privacy = models.PrivacyPrivate
	require.NoError(t, repo.Update(context.Background(), profile))

	got := profileOf(t, db, user.ID)
	assert.Equal(t, "keeps bees", got.Bio)
	assert.Equal(t, "Vermont", got.Location)
	assert.Equal(t, models.PrivacyPrivate, got.Privacy)
}

func TestProfileRepositoryUpdateKeepsCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	follows := NewFollowRepository(db)
	user := createTestUser(t, db, "walter")
	fan := createTestUser(t, db, "fan")

	// Stale copy read before the follow lands.
	stale, err := repo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, stale.FollowersCount)

	_, err = follows.Follow(context.Background(), fan.ID, user.ID)
	require.NoError(t, err)

	stale.Bio = "keeps bees"
	require.NoError(t, repo.Update(context.Background(), stale))

	got := profileOf(t, db, user.ID)
	assert.Equal(t, "keeps bees", got.Bio)
	assert.EqualValues(t, 1, got.FollowersCount, "profile edit must not write back a stale followers_count")
}
