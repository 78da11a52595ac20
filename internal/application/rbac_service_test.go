package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRBACFixture() (*RBACService, *fakeRoleRepo, *fakePermissionRepo) {
	perms := newFakePermissionRepo()
	roles := newFakeRoleRepo(perms)
	return NewRBACService(roles, perms, nil), roles, perms
}

func TestNormalizeRoleName(t *testing.T) {
	cases := map[string]string{
		"content editor": "ROLE_CONTENT_EDITOR",
		"ROLE_ADMIN":     "ROLE_ADMIN",
		"Moderator":      "ROLE_MODERATOR",
		"api-client":     "ROLE_API_CLIENT",
	}
	for in, want := range cases {
		got := NormalizeRoleName(in)
		assert.Equal(t, want, got, "input %q", in)
		// idempotent: normalizing an already-normalized name is a no-op
		assert.Equal(t, got, NormalizeRoleName(got))
	}
}

func TestNormalizePermissionName(t *testing.T) {
	cases := map[string]string{
		"Edit Articles":  "edit_articles",
		"edit_articles":  "edit_articles",
		"My Permission!": "my_permission_",
		"view--posts":    "view_posts",
	}
	for in, want := range cases {
		got := NormalizePermissionName(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizePermissionName(got))
	}
}

func TestRBACRequiresAdmin(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	regular := userWithPermissions("edit_articles")

	_, err := svc.CreateRole(ctx, regular, "editor", "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.ListRoles(ctx, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.CreatePermission(ctx, regular, "edit articles", "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	err = svc.AssignRole(ctx, regular, "u1", "role-1")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRoleLifecycle(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	role, err := svc.CreateRole(ctx, admin, "content editor", "edits content")
	require.NoError(t, err)
	assert.Equal(t, "ROLE_CONTENT_EDITOR", role.Name)
	assert.NotEmpty(t, role.ID)

	// duplicate names are rejected after normalization
	_, err = svc.CreateRole(ctx, admin, "Content Editor", "")
	assert.ErrorIs(t, err, ErrNameTaken)

	got, err := svc.GetRole(ctx, admin, role.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Name, got.Name)

	desc := "senior"
	updated, err := svc.UpdateRole(ctx, admin, role.ID, "senior editor", &desc)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_SENIOR_EDITOR", updated.Name)
	assert.Equal(t, "senior", updated.Description)

	require.NoError(t, svc.DeleteRole(ctx, admin, role.ID))
	_, err = svc.GetRole(ctx, admin, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestPermissionLifecycle(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	perm, err := svc.CreatePermission(ctx, admin, "Edit Articles", "")
	require.NoError(t, err)
	assert.Equal(t, "edit_articles", perm.Name)

	_, err = svc.CreatePermission(ctx, admin, "edit articles", "")
	assert.ErrorIs(t, err, ErrNameTaken)

	list, err := svc.ListPermissions(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeletePermission(ctx, admin, perm.ID))
	_, err = svc.GetPermission(ctx, admin, perm.ID)
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestAttachPermissionGrantsAccessThroughRole(t *testing.T) {
	svc, roles, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	role, err := svc.CreateRole(ctx, admin, "editor", "")
	require.NoError(t, err)
	perm, err := svc.CreatePermission(ctx, admin, "edit articles", "")
	require.NoError(t, err)

	withPerm, err := svc.AttachPermission(ctx, admin, role.ID, perm.ID)
	require.NoError(t, err)
	assert.True(t, withPerm.HasPermission("edit_articles"))

	// a user assigned the role now holds the permission
	require.NoError(t, svc.AssignRole(ctx, admin, "u1", role.ID))
	assigned, err := roles.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.True(t, assigned[0].HasPermission("edit_articles"))

	require.NoError(t, svc.DetachPermission(ctx, admin, role.ID, perm.ID))
	detached, err := svc.GetRole(ctx, admin, role.ID)
	require.NoError(t, err)
	assert.False(t, detached.HasPermission("edit_articles"))
}

func TestAttachPermissionUnknownPermission(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	role, err := svc.CreateRole(ctx, admin, "editor", "")
	require.NoError(t, err)

	_, err = svc.AttachPermission(ctx, admin, role.ID, "missing")
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestAssignRoleUnknownRole(t *testing.T) {
	svc, _, _ := newRBACFixture()
	err := svc.AssignRole(context.Background(), adminUser(), "u1", "missing")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestAttachPermissionUnknownRole(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	perm, err := svc.CreatePermission(ctx, admin, "edit articles", "")
	require.NoError(t, err)

	_, err = svc.AttachPermission(ctx, admin, "missing", perm.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestAssignRoleUnknownUser(t *testing.T) {
	perms := newFakePermissionRepo()
	roles := newFakeRoleRepo(perms)
	roles.users = newFakeUserRepo()
	svc := NewRBACService(roles, perms, nil)
	ctx := context.Background()
	admin := adminUser()

	role, err := svc.CreateRole(ctx, admin, "editor", "")
	require.NoError(t, err)

	err = svc.AssignRole(ctx, admin, "ghost", role.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRolePartialFields(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	role, err := svc.CreateRole(ctx, admin, "editor", "edits content")
	require.NoError(t, err)

	// name-only update leaves the description alone
	updated, err := svc.UpdateRole(ctx, admin, role.ID, "senior editor", nil)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_SENIOR_EDITOR", updated.Name)
	assert.Equal(t, "edits content", updated.Description)

	// an explicit empty string clears it
	empty := ""
	updated, err = svc.UpdateRole(ctx, admin, role.ID, "", &empty)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_SENIOR_EDITOR", updated.Name)
	assert.Equal(t, "", updated.Description)
}

func TestUpdatePermissionPartialFields(t *testing.T) {
	svc, _, _ := newRBACFixture()
	ctx := context.Background()
	admin := adminUser()

	perm, err := svc.CreatePermission(ctx, admin, "edit articles", "article editing")
	require.NoError(t, err)

	updated, err := svc.UpdatePermission(ctx, admin, perm.ID, "edit posts", nil)
	require.NoError(t, err)
	assert.Equal(t, "edit_posts", updated.Name)
	assert.Equal(t, "article editing", updated.Description)

	desc := "post editing"
	updated, err = svc.UpdatePermission(ctx, admin, perm.ID, "", &desc)
	require.NoError(t, err)
	assert.Equal(t, "edit_posts", updated.Name)
	assert.Equal(t, "post editing", updated.Description)
}
