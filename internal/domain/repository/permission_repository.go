package repository

import (
	"context"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

// PermissionRepository defines permission persistence.
type PermissionRepository interface {
	Create(ctx context.Context, p *entity.Permission) error
	GetByID(ctx context.Context, id string) (*entity.Permission, error)
	GetByName(ctx context.Context, name string) (*entity.Permission, error)
	List(ctx context.Context) ([]entity.Permission, error)
	Update(ctx context.Context, p *entity.Permission) error
	Delete(ctx context.Context, id string) error
}
