package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"session-auth/internal/config"
	"session-auth/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints access tokens (stateless) and refresh tokens (registered in
// the session store, bounded per user by the device limit).
type Issuer struct {
	codec      *Codec
	store      session.Store
	accessTTL  time.Duration
	refreshTTL time.Duration
	maxDevices int
	policy     config.DevicePolicy
	log        *slog.Logger
	now        func() time.Time
	newTokenID func() string
}

/* ===================== ISSUE TOKENS ===================== */

// IssueAccessToken builds and signs an access token. No store I/O.
func (i *Issuer) IssueAccessToken(userID string) (string, error) {
	if userID == "" {
		return "", newError(KindInternal, "userId is required", nil)
	}
	return i.codec.Encode(i.claims(i.now(), TokenTypeAccess, userID, "", i.accessTTL))
}

// IssueRefreshToken signs a refresh token, registers its id and enforces
// the device limit. A token is returned only if all of that succeeded.
func (i *Issuer) IssueRefreshToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", newError(KindInternal, "userId is required", nil)
	}

	now := i.now()
	tokenID := i.newTokenID()

	token, err := i.codec.Encode(i.claims(now, TokenTypeRefresh, userID, tokenID, i.refreshTTL))
	if err != nil {
		return "", err
	}

	if err := i.store.SetWithExpiry(ctx, session.RefreshTokenKey(tokenID), userID, i.refreshTTL); err != nil {
		i.log.Error("refresh token registration failed", "user_id", userID, "token_id", tokenID, "err", err)
		return "", storeUnavailable(err)
	}

	if err := i.enforceDeviceLimit(ctx, userID, tokenID, now); err != nil {
		i.discard(ctx, userID, tokenID)
		return "", err
	}

	i.log.Debug("refresh token registered", "user_id", userID, "token_id", tokenID)
	return token, nil
}

// IssueTokenPair issues an access token then a refresh token. Any refresh
// failure aborts the whole call.
func (i *Issuer) IssueTokenPair(ctx context.Context, userID string) (TokenPair, error) {
	access, err := i.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.IssueRefreshToken(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	i.log.Info("tokens issued", "user_id", userID)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

/* ===================== DEVICE LIMIT ===================== */

// enforceDeviceLimit indexes tokenID for userID and, when the user holds
// more than maxDevices live sessions, evicts exactly one: the oldest member
// that is not tokenID. Concurrent issuance may leave the index briefly above
// the cap; later issuances converge it.
func (i *Issuer) enforceDeviceLimit(ctx context.Context, userID, tokenID string, now time.Time) error {
	key := session.UserTokensKey(userID)

	if err := i.store.AddToOrderedSet(ctx, key, tokenID, issueScore(now)); err != nil {
		i.log.Error("session index add failed", "user_id", userID, "token_id", tokenID, "err", err)
		return storeUnavailable(err)
	}
	// The index lives as long as its newest registration.
	if err := i.store.Expire(ctx, key, i.refreshTTL); err != nil {
		i.log.Error("session index expire failed", "user_id", userID, "err", err)
		return storeUnavailable(err)
	}
	// Members this old belong to registrations the store already expired.
	if _, err := i.store.RemoveFromOrderedSetByScore(ctx, key, math.Inf(-1), issueScore(now.Add(-i.refreshTTL))); err != nil {
		i.log.Error("session index prune failed", "user_id", userID, "err", err)
		return storeUnavailable(err)
	}

	size, err := i.store.OrderedSetSize(ctx, key)
	if err != nil {
		i.log.Error("session index size failed", "user_id", userID, "err", err)
		return storeUnavailable(err)
	}
	if size <= int64(i.maxDevices) {
		return nil
	}

	if i.policy == config.DevicePolicyReject {
		i.log.Warn("device limit reached", "code", KindMaxDevicesExceeded, "user_id", userID, "sessions", size-1, "max_devices", i.maxDevices)
		return newError(KindMaxDevicesExceeded, fmt.Sprintf("Maximum number of devices (%d) exceeded", i.maxDevices), nil)
	}

	oldest, err := i.store.OrderedSetRangeAscending(ctx, key, 0, 1)
	if err != nil {
		i.log.Error("session index range failed", "user_id", userID, "err", err)
		return storeUnavailable(err)
	}
	victim := ""
	for _, m := range oldest {
		if m != tokenID {
			victim = m
			break
		}
	}
	if victim == "" {
		return nil
	}

	// Registration first: a failure here leaves both structures untouched.
	if err := i.store.Delete(ctx, session.RefreshTokenKey(victim)); err != nil {
		i.log.Error("device eviction failed", "user_id", userID, "token_id", victim, "err", err)
		return storeUnavailable(err)
	}
	if err := i.store.RemoveFromOrderedSet(ctx, key, victim); err != nil {
		i.log.Error("device eviction left stale index entry", "user_id", userID, "token_id", victim, "err", err)
		return storeUnavailable(err)
	}

	i.log.Info("evicted oldest session", "code", KindDeviceLimitExceeded, "user_id", userID, "token_id", victim, "max_devices", i.maxDevices)
	return nil
}

// discard undoes a registration that will not be handed out. Best effort:
// a leftover key expires with the refresh TTL.
func (i *Issuer) discard(ctx context.Context, userID, tokenID string) {
	// Detached from ctx so a cancelled request still cleans up.
	ctx = context.WithoutCancel(ctx)
	if err := i.store.RemoveFromOrderedSet(ctx, session.UserTokensKey(userID), tokenID); err != nil {
		i.log.Error("rollback of session index entry failed", "user_id", userID, "token_id", tokenID, "err", err)
	}
	if err := i.store.Delete(ctx, session.RefreshTokenKey(tokenID)); err != nil {
		i.log.Error("rollback of refresh registration failed", "user_id", userID, "token_id", tokenID, "err", err)
	}
}

/* ===================== INTERNAL ===================== */

func (i *Issuer) claims(now time.Time, tokenType TokenType, userID, tokenID string, ttl time.Duration) Claims {
	return Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        tokenID,
		},
	}
}

// issueScore orders index members by issue time at microsecond precision,
// which float64 represents exactly.
func issueScore(t time.Time) float64 {
	return float64(t.UnixMicro())
}
