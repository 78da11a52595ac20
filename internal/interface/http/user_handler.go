package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/interface/middleware"
	"github.com/velora-social/velora-api/pkg/response"
	"github.com/velora-social/velora-api/pkg/validation"
)

type UserHandler struct {
	Auth    *app.AuthService
	Imports *app.ImportService
	Logger  *logrus.Logger
}

func NewUserHandler(auth *app.AuthService, imports *app.ImportService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Imports: imports, Logger: logger}
}

type bulkImportRequest struct {
	Users []app.ImportRecord `json:"users" binding:"required"`
}

// Search queries the users index by name or email.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Auth.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

// BulkImport creates many accounts at once. Admin only; individual record
// failures are reported without aborting the batch.
func (h *UserHandler) BulkImport(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Imports.Import(c.Request.Context(), middleware.Principal(c), req.Users)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "import finished", nil)
}
