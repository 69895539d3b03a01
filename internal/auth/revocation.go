package auth

import (
	"context"
	"errors"
	"log/slog"

	"session-auth/internal/session"
)

// Revoker removes refresh-token registrations, keeping the registration
// keys and the per-user index consistent.
type Revoker struct {
	store session.Store
	log   *slog.Logger
}

// RevokeOne revokes a single refresh token by id. It reports false with a
// nil error when the token is unknown or already revoked.
//
// The registration key goes first. If the index removal then fails the
// token is already unusable and the stale index entry is reported as
// KindSessionStoreUnavailable; issuance prunes or evicts it later.
func (r *Revoker) RevokeOne(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, tokenInvalid("Missing jti", nil)
	}

	userID, ok, err := r.store.Get(ctx, session.RefreshTokenKey(tokenID))
	if err != nil {
		r.log.Error("revoke lookup failed", "token_id", tokenID, "err", err)
		return false, storeUnavailable(err)
	}
	if !ok {
		r.log.Warn("revoke of unknown or already revoked token", "token_id", tokenID)
		return false, nil
	}

	if err := r.store.Delete(ctx, session.RefreshTokenKey(tokenID)); err != nil {
		r.log.Error("revoke failed", "user_id", userID, "token_id", tokenID, "err", err)
		return false, storeUnavailable(err)
	}
	if err := r.store.RemoveFromOrderedSet(ctx, session.UserTokensKey(userID), tokenID); err != nil {
		r.log.Error("partial revoke: registration deleted, index entry left", "user_id", userID, "token_id", tokenID, "err", err)
		return true, storeUnavailable(err)
	}

	r.log.Info("revoked refresh token", "user_id", userID, "token_id", tokenID)
	return true, nil
}

// RevokeAll revokes every refresh token of userID and returns how many
// index entries were found. The index is deleted only after every
// registration key was deleted, so a failed call can simply be retried.
func (r *Revoker) RevokeAll(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, tokenInvalid("Missing userId", nil)
	}

	key := session.UserTokensKey(userID)
	tokenIDs, err := r.store.OrderedSetRangeAscending(ctx, key, 0, -1)
	if err != nil {
		r.log.Error("revoke all lookup failed", "user_id", userID, "err", err)
		return 0, storeUnavailable(err)
	}
	if len(tokenIDs) == 0 {
		r.log.Warn("no tokens found for user", "user_id", userID)
		return 0, nil
	}

	var errs []error
	for _, id := range tokenIDs {
		if err := r.store.Delete(ctx, session.RefreshTokenKey(id)); err != nil {
			r.log.Error("revoke all: registration delete failed", "user_id", userID, "token_id", id, "err", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return len(tokenIDs), storeUnavailable(errors.Join(errs...))
	}

	if err := r.store.DeleteOrderedSet(ctx, key); err != nil {
		r.log.Error("partial revoke all: registrations deleted, index left", "user_id", userID, "err", err)
		return len(tokenIDs), storeUnavailable(err)
	}

	r.log.Info("revoked all tokens", "user_id", userID, "count", len(tokenIDs))
	return len(tokenIDs), nil
}
