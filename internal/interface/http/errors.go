package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/pkg/response"
)

// writeError maps application errors onto HTTP statuses and writes the
// error envelope. Unknown errors become an opaque 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrAccessDenied):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrRoleNotFound),
		errors.Is(err, app.ErrPermissionNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, app.ErrEmailTaken),
		errors.Is(err, app.ErrNameTaken),
		errors.Is(err, app.ErrWrongPassword),
		errors.Is(err, app.ErrSelfFollow),
		errors.Is(err, app.ErrSelfUnfollow),
		errors.Is(err, app.ErrAlreadyFollowing),
		errors.Is(err, app.ErrNotFollowing):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
