package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix  = "profile:%d"
	postKeyPrefix     = "post:%d"
	denylistKeyPrefix = "denylist:%s"
)

const (
	// ProfileTTL bounds staleness of publicly cached profiles.
	ProfileTTL = 5 * time.Minute
	PostTTL    = 30 * time.Minute
)

// ProfileKey returns the cache key for a user's profile.
func ProfileKey(userID uint) string {
	return fmt.Sprintf(profileKeyPrefix, userID)
}

// PostKey returns the cache key for a post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// Invalidate removes a key. A nil client makes this a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile drops the cached profile for the user.
func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

// InvalidatePost drops the cached post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// Aside is a read-through cache helper. On a hit, dest is filled from Redis.
// On a miss, load runs and a successful result is stored under key. Redis
// being down or disabled degrades to calling load directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// A value that no longer unmarshals is stale schema; drop it.
		client.Del(ctx, key)
	}

	if loadErr := load(); loadErr != nil {
		return loadErr
	}

	if data, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// DenylistToken marks a token's jti as revoked until its natural expiry.
// Used for refresh-token rotation and logout.
func DenylistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return client.Set(ctx, fmt.Sprintf(denylistKeyPrefix, jti), "1", ttl).Err()
}

// IsTokenDenylisted reports whether the jti has been revoked. Redis being
// unavailable fails open so an outage never locks users out.
func IsTokenDenylisted(ctx context.Context, jti string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, fmt.Sprintf(denylistKeyPrefix, jti)).Result()
	if err != nil && err != redis.Nil {
		return false
	}
	return n > 0
}
