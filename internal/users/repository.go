package users

import (
	"context"
	"errors"
	"time"
)

// User is the identity a token pair is issued for. Credential checks live
// upstream; this service only resolves who the caller claims to be.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

var ErrNotFound = errors.New("users: not found")

type Repository interface {
	FindByID(ctx context.Context, id string) (User, error)
	FindByName(ctx context.Context, name string) (User, error)
}
