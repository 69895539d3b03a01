package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", tokenRevoked())
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected errors.Is to match by kind")
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatalf("unexpected match on different kind")
	}
	if KindOf(err) != KindTokenRevoked {
		t.Fatalf("unexpected kind %s", KindOf(err))
	}
}

func TestError_CauseIsNotExposed(t *testing.T) {
	err := storeUnavailable(errors.New("dial tcp 10.0.0.1:6379: connection refused"))
	if DetailOf(err) != "Session store unavailable" {
		t.Fatalf("unexpected detail %q", DetailOf(err))
	}
	if !errors.Is(err, ErrSessionStoreUnavailable) {
		t.Fatalf("expected kind match")
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	err := errors.New("boom")
	if KindOf(err) != KindInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %s", KindOf(err))
	}
	if DetailOf(err) != "An unexpected error occurred" {
		t.Fatalf("unexpected detail %q", DetailOf(err))
	}
}
