package auth

import (
	"context"
	"log/slog"

	"session-auth/internal/session"
)

// Refresher exchanges a live refresh token for a new access token.
// The refresh token itself is not rotated.
type Refresher struct {
	verifier *Verifier
	issuer   *Issuer
	store    session.Store
	log      *slog.Logger
}

// RefreshAccessToken uses phase 1 only, then requires this exact jti to be
// registered; "the user has some session" is not enough here.
func (r *Refresher) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := r.verifier.Decode(refreshToken)
	if err != nil {
		return "", err
	}
	if err := RequireType(claims, TokenTypeRefresh); err != nil {
		return "", err
	}
	tokenID := claims.TokenID()
	if tokenID == "" {
		return "", tokenInvalid("Missing jti in refresh token", nil)
	}

	owner, ok, err := r.store.Get(ctx, session.RefreshTokenKey(tokenID))
	if err != nil {
		r.log.Error("refresh lookup failed", "token_id", tokenID, "err", err)
		return "", storeUnavailable(err)
	}
	if !ok {
		// Explicit logout and natural expiry look the same from here.
		return "", tokenRevoked()
	}
	if claims.UserID != owner {
		r.log.Warn("refresh token owner mismatch", "token_id", tokenID, "claims_user_id", claims.UserID, "owner", owner)
		return "", tokenInvalid("Refresh token does not match its session", nil)
	}

	access, err := r.issuer.IssueAccessToken(owner)
	if err != nil {
		return "", err
	}
	r.log.Info("refreshed access token", "user_id", owner, "token_id", tokenID)
	return access, nil
}
