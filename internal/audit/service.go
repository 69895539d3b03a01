package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"
)

// Repository is the persistence contract for audit events.
// It is append-only: no Update/Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records session lifecycle events.
// Audit is internal-only; records are never exposed to end users.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log.With("component", "audit"), clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Append validates e, fills ID (a KSUID) and CreatedAt, and stores it.
func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.UserID == "" || e.Type == "" {
		return ErrInvalidEvent
	}

	// KSUIDs sort by creation time.
	if e.ID == "" {
		e.ID = ksuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record is the best-effort form of Append: failures are logged and dropped.
func (s *Service) Record(ctx context.Context, e Event) {
	if s == nil {
		return
	}
	if err := s.Append(ctx, e); err != nil {
		s.log.Warn("audit record dropped", "type", e.Type, "user_id", e.UserID, "err", err)
	}
}
