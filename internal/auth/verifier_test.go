package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerify_PhaseOneIgnoresSessions(t *testing.T) {
	env := newTestEnv(t)

	tok, _ := env.m.IssueAccessToken("user-1")
	claims, err := env.m.Verify(context.Background(), tok, false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user %q", claims.UserID)
	}
}

func TestVerify_PhaseTwoRequiresLiveSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tok, _ := env.m.IssueAccessToken("user-1")
	if _, err := env.m.Verify(ctx, tok, true); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected NO_ACTIVE_SESSION, got %v", err)
	}

	env.issueRefresh(t, "user-1")
	if _, err := env.m.Verify(ctx, tok, true); err != nil {
		t.Fatalf("expected session check to pass, got %v", err)
	}

	if _, err := env.m.RevokeAll(ctx, "user-1"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if _, err := env.m.Verify(ctx, tok, true); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected NO_ACTIVE_SESSION after revoke all, got %v", err)
	}
}

func TestVerify_ExpiredSkipsSessionCheck(t *testing.T) {
	env := newTestEnv(t)
	env.fault.fail["OrderedSetSize"] = errBoom

	tok, _ := env.m.IssueAccessToken("user-1")
	env.clock.Advance(env.cfg.AccessTokenTTL)

	_, err := env.m.Verify(context.Background(), tok, true)
	assertKind(t, err, KindTokenExpired)
}

func TestVerify_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.fault.fail["OrderedSetSize"] = errBoom

	tok, _ := env.m.IssueAccessToken("user-1")
	_, err := env.m.Verify(context.Background(), tok, true)
	assertKind(t, err, KindSessionStoreUnavailable)
}

func TestCheckSession_MissingUserID(t *testing.T) {
	env := newTestEnv(t)

	now := env.clock.Now()
	tok, err := env.m.Codec().Encode(claimsAt(now, now.Add(time.Minute), TokenTypeAccess))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	claims, err := env.m.Verifier().Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims.UserID = ""

	assertKind(t, env.m.Verifier().CheckSession(context.Background(), claims), KindTokenInvalid)
}

func TestRequireType(t *testing.T) {
	if err := RequireType(Claims{Type: TokenTypeAccess}, TokenTypeAccess); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	err := RequireType(Claims{Type: TokenTypeRefresh}, TokenTypeAccess)
	assertKind(t, err, KindWrongTokenType)
	if DetailOf(err) != "Expected access token, but received refresh token" {
		t.Fatalf("unexpected detail %q", DetailOf(err))
	}
}
