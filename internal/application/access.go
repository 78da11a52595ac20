package application

import (
	"errors"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

// ErrAccessDenied is returned whenever a principal lacks the role or
// permission an operation requires. Handlers map it to 403.
var ErrAccessDenied = errors.New("access denied: you do not have the required permission")

// IsAdmin reports whether the principal carries the admin role, which grants
// every permission implicitly. A nil principal is never an admin.
func IsAdmin(principal *entity.User) bool {
	return principal != nil && principal.HasRole(entity.RoleAdmin)
}

// HasPermission reports whether the principal holds the named permission,
// either through the admin override or through one of its assigned roles.
// Unauthenticated callers (nil principal) hold nothing.
func HasPermission(principal *entity.User, permission string) bool {
	if principal == nil {
		return false
	}
	if IsAdmin(principal) {
		return true
	}
	return principal.HasPermission(permission)
}

// HasAnyPermission reports whether the principal holds at least one of the
// named permissions.
func HasAnyPermission(principal *entity.User, permissions []string) bool {
	for _, p := range permissions {
		if HasPermission(principal, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the principal holds every named
// permission. An empty list is vacuously satisfied.
func HasAllPermissions(principal *entity.User, permissions []string) bool {
	for _, p := range permissions {
		if !HasPermission(principal, p) {
			return false
		}
	}
	return true
}

// RequirePermission returns ErrAccessDenied unless the principal holds the
// named permission. Callers run this before touching any state.
func RequirePermission(principal *entity.User, permission string) error {
	if !HasPermission(principal, permission) {
		return ErrAccessDenied
	}
	return nil
}

// RequireAdmin returns ErrAccessDenied unless the principal is an admin.
func RequireAdmin(principal *entity.User) error {
	if !IsAdmin(principal) {
		return ErrAccessDenied
	}
	return nil
}

// canEditUser gates every profile mutation: only the subject itself or an
// admin may edit a user.
func canEditUser(principal *entity.User, subject *entity.User) bool {
	if principal == nil || subject == nil {
		return false
	}
	return principal.ID == subject.ID || IsAdmin(principal)
}
