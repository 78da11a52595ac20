package entity

import (
	"time"
)

// RoleUser is granted to every account; RoleAdmin implies every permission.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// LegacyRoles holds plain role-name strings kept from before roles became
// first-class records; AssignedRoles are Role rows linked via user_roles.
type User struct {
	ID                string
	Email             string
	Password          string
	Name              string
	LegacyRoles       []string
	AssignedRoles     []Role
	LanguageCode      string
	Timezone          string
	AppPreferences    map[string]any
	NotificationPrefs map[string]any
	ProfilePictureURL string
	CoverPictureURL   string
	ShortBio          map[string]string
	LongBio           map[string]string
	Interests         []string
	SocialLinks       map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RoleNames returns all effective role names, legacy and assigned,
// deduplicated. Every user implicitly carries ROLE_USER.
func (u *User) RoleNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(u.LegacyRoles)+len(u.AssignedRoles)+1)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, n := range u.LegacyRoles {
		add(n)
	}
	for _, r := range u.AssignedRoles {
		add(r.Name)
	}
	add(RoleUser)
	return names
}

// HasRole reports whether the user carries the role, either as a legacy
// string role or through an assigned Role record.
func (u *User) HasRole(name string) bool {
	if name == RoleUser {
		return true
	}
	for _, n := range u.LegacyRoles {
		if n == name {
			return true
		}
	}
	for _, r := range u.AssignedRoles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasPermission reports whether any assigned role contains a permission with
// exactly this name. Legacy string roles carry no permissions.
func (u *User) HasPermission(name string) bool {
	for _, r := range u.AssignedRoles {
		for _, p := range r.Permissions {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// EnsureDefaults fills locale, timezone and the JSON-backed fields so callers
// never see nil maps.
func (u *User) EnsureDefaults() {
	if u.LanguageCode == "" {
		u.LanguageCode = "en"
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	if u.AppPreferences == nil {
		u.AppPreferences = map[string]any{}
	}
	if u.NotificationPrefs == nil {
		u.NotificationPrefs = map[string]any{}
	}
	if u.ShortBio == nil {
		u.ShortBio = map[string]string{}
	}
	if u.LongBio == nil {
		u.LongBio = map[string]string{}
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	if u.SocialLinks == nil {
		u.SocialLinks = map[string]string{}
	}
}
