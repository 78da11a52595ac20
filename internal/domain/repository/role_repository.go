package repository

import (
	"context"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

// RoleRepository defines role persistence, including the role<->permission
// and user<->role join tables. Roles are always returned with their
// permissions loaded.
type RoleRepository interface {
	Create(ctx context.Context, r *entity.Role) error
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
	Update(ctx context.Context, r *entity.Role) error
	Delete(ctx context.Context, id string) error

	AddPermission(ctx context.Context, roleID, permissionID string) error
	RemovePermission(ctx context.Context, roleID, permissionID string) error

	AssignToUser(ctx context.Context, userID, roleID string) error
	RemoveFromUser(ctx context.Context, userID, roleID string) error
	ListForUser(ctx context.Context, userID string) ([]entity.Role, error)
}
