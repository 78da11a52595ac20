package repository

import (
	"context"
	"errors"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// InsertBatch inserts all users in one transaction. Email conflicts do
	// not fail the batch; inserted[i] reports whether users[i] was stored.
	InsertBatch(ctx context.Context, users []*entity.User) (inserted []bool, err error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
