package application

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrNameTaken          = errors.New("a record with this name already exists")
)

var (
	roleNamePattern     = regexp.MustCompile(`^ROLE_[A-Z0-9_]+$`)
	roleNameSanitizer   = regexp.MustCompile(`[^A-Za-z0-9_]`)
	permissionSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// NormalizeRoleName rewrites a role name into the ROLE_UPPER_SNAKE
// convention. Names already in convention pass through unchanged, which
// makes the rewrite idempotent.
func NormalizeRoleName(name string) string {
	if roleNamePattern.MatchString(name) {
		return name
	}
	return "ROLE_" + strings.ToUpper(roleNameSanitizer.ReplaceAllString(name, "_"))
}

// NormalizePermissionName lowercases the name and collapses every run of
// non-alphanumeric characters into a single underscore. Idempotent.
func NormalizePermissionName(name string) string {
	return strings.ToLower(permissionSanitizer.ReplaceAllString(name, "_"))
}

// RBACService manages roles and permissions. Every operation is restricted
// to admins; the guard runs before any repository call.
type RBACService struct {
	Roles       repository.RoleRepository
	Permissions repository.PermissionRepository
	Logger      *logrus.Logger
}

func NewRBACService(roles repository.RoleRepository, perms repository.PermissionRepository, logger *logrus.Logger) *RBACService {
	return &RBACService{Roles: roles, Permissions: perms, Logger: logger}
}

func (s *RBACService) CreateRole(ctx context.Context, principal *entity.User, name, description string) (*entity.Role, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	role := &entity.Role{Name: NormalizeRoleName(name), Description: description}
	if err := s.Roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("role", role.Name).Info("role created")
	}
	return role, nil
}

func (s *RBACService) GetRole(ctx context.Context, principal *entity.User, id string) (*entity.Role, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	role, err := s.Roles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoleNotFound
	}
	return role, err
}

func (s *RBACService) ListRoles(ctx context.Context, principal *entity.User) ([]entity.Role, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	return s.Roles.List(ctx)
}

// UpdateRole applies a partial update: an empty name and a nil description
// both leave the current value in place.
func (s *RBACService) UpdateRole(ctx context.Context, principal *entity.User, id, name string, description *string) (*entity.Role, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	role, err := s.Roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	if name != "" {
		role.Name = NormalizeRoleName(name)
	}
	if description != nil {
		role.Description = *description
	}
	if err := s.Roles.Update(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return role, nil
}

func (s *RBACService) DeleteRole(ctx context.Context, principal *entity.User, id string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	if err := s.Roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}

func (s *RBACService) CreatePermission(ctx context.Context, principal *entity.User, name, description string) (*entity.Permission, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	perm := &entity.Permission{Name: NormalizePermissionName(name), Description: description}
	if err := s.Permissions.Create(ctx, perm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("permission", perm.Name).Info("permission created")
	}
	return perm, nil
}

func (s *RBACService) GetPermission(ctx context.Context, principal *entity.User, id string) (*entity.Permission, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	perm, err := s.Permissions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPermissionNotFound
	}
	return perm, err
}

func (s *RBACService) ListPermissions(ctx context.Context, principal *entity.User) ([]entity.Permission, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	return s.Permissions.List(ctx)
}

// UpdatePermission applies a partial update with the same omitted-field
// semantics as UpdateRole.
func (s *RBACService) UpdatePermission(ctx context.Context, principal *entity.User, id, name string, description *string) (*entity.Permission, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	perm, err := s.Permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	if name != "" {
		perm.Name = NormalizePermissionName(name)
	}
	if description != nil {
		perm.Description = *description
	}
	if err := s.Permissions.Update(ctx, perm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return perm, nil
}

func (s *RBACService) DeletePermission(ctx context.Context, principal *entity.User, id string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	if err := s.Permissions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return err
	}
	return nil
}

// AttachPermission links a permission to a role.
func (s *RBACService) AttachPermission(ctx context.Context, principal *entity.User, roleID, permissionID string) (*entity.Role, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}
	if _, err := s.Permissions.GetByID(ctx, permissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	if err := s.Roles.AddPermission(ctx, roleID, permissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	role, err := s.Roles.GetByID(ctx, roleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoleNotFound
	}
	return role, err
}

// DetachPermission unlinks a permission from a role.
func (s *RBACService) DetachPermission(ctx context.Context, principal *entity.User, roleID, permissionID string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	return s.Roles.RemovePermission(ctx, roleID, permissionID)
}

// AssignRole grants a role to a user.
func (s *RBACService) AssignRole(ctx context.Context, principal *entity.User, userID, roleID string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.Roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if err := s.Roles.AssignToUser(ctx, userID, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// RemoveRole revokes a role from a user.
func (s *RBACService) RemoveRole(ctx context.Context, principal *entity.User, userID, roleID string) error {
	if err := RequireAdmin(principal); err != nil {
		return err
	}
	return s.Roles.RemoveFromUser(ctx, userID, roleID)
}
