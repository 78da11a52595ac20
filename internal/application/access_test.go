package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

func userWithPermissions(names ...string) *entity.User {
	perms := make([]entity.Permission, 0, len(names))
	for _, n := range names {
		perms = append(perms, entity.Permission{Name: n})
	}
	return &entity.User{
		ID:            "u1",
		AssignedRoles: []entity.Role{{Name: "ROLE_EDITOR", Permissions: perms}},
	}
}

func adminUser() *entity.User {
	return &entity.User{ID: "admin", LegacyRoles: []string{entity.RoleAdmin}}
}

func TestHasPermission(t *testing.T) {
	u := userWithPermissions("edit_articles")

	assert.True(t, HasPermission(u, "edit_articles"))
	assert.False(t, HasPermission(u, "delete_articles"))
	assert.False(t, HasPermission(nil, "edit_articles"))
}

func TestHasPermissionAdminOverride(t *testing.T) {
	admin := adminUser()

	assert.True(t, HasPermission(admin, "edit_articles"))
	assert.True(t, HasPermission(admin, "anything_at_all"))
	assert.True(t, IsAdmin(admin))
	assert.False(t, IsAdmin(userWithPermissions("edit_articles")))
	assert.False(t, IsAdmin(nil))
}

func TestPermissionNamesMatchExactly(t *testing.T) {
	u := userWithPermissions("edit_articles")

	assert.False(t, HasPermission(u, "EDIT_ARTICLES"))
	assert.False(t, HasPermission(u, "edit_article"))
}

func TestHasAnyPermission(t *testing.T) {
	u := userWithPermissions("edit_articles")

	assert.True(t, HasAnyPermission(u, []string{"delete_articles", "edit_articles"}))
	assert.False(t, HasAnyPermission(u, []string{"delete_articles", "publish_articles"}))
	assert.False(t, HasAnyPermission(u, nil))
}

func TestHasAllPermissions(t *testing.T) {
	u := userWithPermissions("edit_articles", "publish_articles")

	assert.True(t, HasAllPermissions(u, []string{"edit_articles", "publish_articles"}))
	assert.False(t, HasAllPermissions(u, []string{"edit_articles", "delete_articles"}))
	// empty list is vacuously satisfied, even unauthenticated
	assert.True(t, HasAllPermissions(u, []string{}))
	assert.True(t, HasAllPermissions(nil, nil))
}

func TestRequireHelpers(t *testing.T) {
	u := userWithPermissions("edit_articles")

	assert.NoError(t, RequirePermission(u, "edit_articles"))
	assert.ErrorIs(t, RequirePermission(u, "delete_articles"), ErrAccessDenied)
	assert.ErrorIs(t, RequireAdmin(u), ErrAccessDenied)
	assert.NoError(t, RequireAdmin(adminUser()))
	assert.ErrorIs(t, RequireAdmin(nil), ErrAccessDenied)
}

func TestEveryUserCarriesBaseRole(t *testing.T) {
	u := &entity.User{ID: "u2"}

	assert.True(t, u.HasRole(entity.RoleUser))
	assert.Contains(t, u.RoleNames(), entity.RoleUser)
}
