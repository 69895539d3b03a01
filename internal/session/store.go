package session

import (
	"context"
	"time"
)

// Key prefixes are shared with store inspection tooling; keep them stable.
const (
	refreshTokenPrefix = "refresh_token:"
	userTokensPrefix   = "user_tokens:"
)

// RefreshTokenKey is the registration key for a refresh token id.
// Value: owning user id. TTL: refresh-token lifetime.
func RefreshTokenKey(tokenID string) string { return refreshTokenPrefix + tokenID }

// UserTokensKey is the per-user ordered index of live refresh token ids,
// scored by issue time.
func UserTokensKey(userID string) string { return userTokensPrefix + userID }

// Store is the key-value contract consumed by the auth core.
//
// Each call is atomic on its own. Callers must not assume transactions
// across calls and must tolerate partial completion of multi-step work.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	AddToOrderedSet(ctx context.Context, setKey, member string, score float64) error
	RemoveFromOrderedSet(ctx context.Context, setKey, member string) error
	// RemoveFromOrderedSetByScore removes members with min <= score <= max.
	RemoveFromOrderedSetByScore(ctx context.Context, setKey string, min, max float64) (int64, error)
	OrderedSetSize(ctx context.Context, setKey string) (int64, error)
	// OrderedSetRangeAscending returns members by ascending score, inclusive
	// indexes; stop = -1 means the last member.
	OrderedSetRangeAscending(ctx context.Context, setKey string, start, stop int64) ([]string, error)
	DeleteOrderedSet(ctx context.Context, setKey string) error
}
