package audit

import "time"

// Event is an immutable, append-only record of a session lifecycle change.
//
// Invariants:
// - Events are never updated or deleted.
// - Raw tokens are never stored; TokenID is the refresh token jti.
// - Recording is best-effort; session flows never fail on audit errors.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	UserID string `json:"user_id" db:"user_id"`
	// TokenID is empty for events that are not about a single refresh token.
	TokenID string `json:"token_id,omitempty" db:"token_id"`

	// IPAddress is the resolved client IP, when known.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTokensIssued     EventType = "tokens_issued"
	EventAccessRefreshed  EventType = "access_refreshed"
	EventTokenRevoked     EventType = "token_revoked"
	EventTokensRevokedAll EventType = "tokens_revoked_all"
)
