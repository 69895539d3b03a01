package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresRepo reads the users table through sqlx over the pgx stdlib driver.
type PostgresRepo struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return r.findOne(ctx, `SELECT id, name, created_at FROM users WHERE id = $1`, id)
}

func (r *PostgresRepo) FindByName(ctx context.Context, name string) (User, error) {
	if name == "" {
		return User{}, ErrNotFound
	}
	return r.findOne(ctx, `SELECT id, name, created_at FROM users WHERE name = $1`, name)
}

func (r *PostgresRepo) findOne(ctx context.Context, query, arg string) (User, error) {
	if r.db == nil {
		return User{}, errors.New("users: db is nil")
	}
	var u User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("users: query: %w", err)
	}
	return u, nil
}
