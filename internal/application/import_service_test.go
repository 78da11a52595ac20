package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-social/velora-api/pkg/helpers"
)

func TestImportRequiresAdmin(t *testing.T) {
	svc := NewImportService(newFakeUserRepo(), nil)

	_, err := svc.Import(context.Background(), userWithPermissions("edit_articles"), nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.Import(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestImportMixedBatch(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewImportService(users, nil)
	ctx := context.Background()

	records := []ImportRecord{
		{Email: "a@example.com", Name: "A", PlainPassword: "secret123"},
		{Name: "No Email", PlainPassword: "secret123"},
		{Email: "b@example.com", Name: "B", PlainPassword: "secret123", LanguageCode: "de"},
	}

	res, err := svc.Import(ctx, adminUser(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "N/A", res.Errors[0].Email)
	assert.Equal(t, "email, name and password are required for each user", res.Errors[0].Message)

	// imported users are stored with hashed passwords and defaults applied
	a, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", a.Password)
	assert.True(t, helpers.CompareHashAndPassword(a.Password, "secret123"))
	assert.Equal(t, "en", a.LanguageCode)

	b, err := users.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "de", b.LanguageCode)
}

func TestImportDuplicateEmailFailsRecordOnly(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewImportService(users, nil)
	ctx := context.Background()

	first, err := svc.Import(ctx, adminUser(), []ImportRecord{
		{Email: "dup@example.com", Name: "First", PlainPassword: "secret123"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Success)

	res, err := svc.Import(ctx, adminUser(), []ImportRecord{
		{Email: "fresh@example.com", Name: "Fresh", PlainPassword: "secret123"},
		{Email: "dup@example.com", Name: "Dup", PlainPassword: "secret123"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "dup@example.com", res.Errors[0].Email)
	assert.Equal(t, "there is already an account with this email", res.Errors[0].Message)

	// the original account is untouched
	orig, err := users.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", orig.Name)
}

func TestImportEmptyBatch(t *testing.T) {
	svc := NewImportService(newFakeUserRepo(), nil)

	res, err := svc.Import(context.Background(), adminUser(), []ImportRecord{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, res.Errors)
}
