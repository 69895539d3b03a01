package auth

import "errors"

// Kind is the stable, machine-readable code of a core failure.
type Kind string

const (
	KindTokenExpired            Kind = "TOKEN_EXPIRED"
	KindTokenInvalid            Kind = "TOKEN_INVALID"
	KindWrongTokenType          Kind = "TOKEN_TYPE_INVALID"
	KindTokenRevoked            Kind = "TOKEN_REVOKED"
	KindNoActiveSession         Kind = "NO_ACTIVE_SESSION"
	KindSessionStoreUnavailable Kind = "SESSION_STORE_UNAVAILABLE"
	// KindDeviceLimitExceeded is informational: eviction resolves it.
	KindDeviceLimitExceeded Kind = "DEVICE_LIMIT_EXCEEDED"
	// KindMaxDevicesExceeded is returned only under the reject device policy.
	KindMaxDevicesExceeded Kind = "MAX_DEVICES_EXCEEDED"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error is the single error type returned by the auth core.
// Detail is safe to show to clients; Err is the cause and is for logs only.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the kind sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrTokenExpired            = &Error{Kind: KindTokenExpired}
	ErrTokenInvalid            = &Error{Kind: KindTokenInvalid}
	ErrWrongTokenType          = &Error{Kind: KindWrongTokenType}
	ErrTokenRevoked            = &Error{Kind: KindTokenRevoked}
	ErrNoActiveSession         = &Error{Kind: KindNoActiveSession}
	ErrSessionStoreUnavailable = &Error{Kind: KindSessionStoreUnavailable}
	ErrMaxDevicesExceeded      = &Error{Kind: KindMaxDevicesExceeded}
)

// KindOf returns the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the client-safe message for err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return "An unexpected error occurred"
}

func newError(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

func tokenExpired() *Error {
	return newError(KindTokenExpired, "Token has expired", nil)
}

func tokenInvalid(detail string, cause error) *Error {
	if detail == "" {
		detail = "Invalid token"
	}
	return newError(KindTokenInvalid, detail, cause)
}

func wrongTokenType(expected, received TokenType) *Error {
	detail := "Invalid token type"
	if expected != "" && received != "" {
		detail = "Expected " + string(expected) + " token, but received " + string(received) + " token"
	}
	return newError(KindWrongTokenType, detail, nil)
}

func tokenRevoked() *Error {
	return newError(KindTokenRevoked, "Token has been revoked", nil)
}

func noActiveSession() *Error {
	return newError(KindNoActiveSession, "No active session found", nil)
}

func storeUnavailable(cause error) *Error {
	return newError(KindSessionStoreUnavailable, "Session store unavailable", cause)
}
