package entity

import "time"

// Role is a named authorization grouping.
// Many-to-many with User via user_roles and with Permission via
// role_permissions.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the role contains a permission with the name.
func (r *Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}
