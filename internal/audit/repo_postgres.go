package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresRepo appends events to session_audit_events. Insert-only.
type PostgresRepo struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.db == nil {
		return errors.New("audit: db is nil")
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO session_audit_events (id, type, user_id, token_id, ip_address, message, created_at)
		VALUES (:id, :type, :user_id, :token_id, :ip_address, :message, :created_at)`, e)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}
