package auth

import (
	"context"
	"log/slog"

	"session-auth/internal/session"
)

// Verifier checks incoming tokens in two phases.
// Phase 1 (Decode) is pure; phase 2 (CheckSession) asks the store whether
// the user still has any live session. Both are callable on their own.
type Verifier struct {
	codec *Codec
	store session.Store
	log   *slog.Logger
}

// Decode is phase 1: signature, issuer and expiry.
func (v *Verifier) Decode(token string) (Claims, error) {
	return v.codec.Decode(token)
}

// CheckSession is phase 2.
func (v *Verifier) CheckSession(ctx context.Context, claims Claims) error {
	if claims.UserID == "" {
		return tokenInvalid("Missing userId in token", nil)
	}
	n, err := v.store.OrderedSetSize(ctx, session.UserTokensKey(claims.UserID))
	if err != nil {
		v.log.Error("session check failed", "user_id", claims.UserID, "err", err)
		return storeUnavailable(err)
	}
	if n == 0 {
		return noActiveSession()
	}
	return nil
}

// Verify runs phase 1 and, when requireSession is set, phase 2.
func (v *Verifier) Verify(ctx context.Context, token string, requireSession bool) (Claims, error) {
	claims, err := v.Decode(token)
	if err != nil {
		return Claims{}, err
	}
	if requireSession {
		if err := v.CheckSession(ctx, claims); err != nil {
			return Claims{}, err
		}
	}
	return claims, nil
}

// RequireType fails with KindWrongTokenType unless claims is of type want.
func RequireType(claims Claims, want TokenType) error {
	if claims.Type != want {
		return wrongTokenType(want, claims.Type)
	}
	return nil
}
