package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/interface/middleware"
	"github.com/velora-social/velora-api/pkg/response"
	"github.com/velora-social/velora-api/pkg/validation"
)

type RBACHandler struct {
	Svc    *app.RBACService
	Logger *logrus.Logger
}

func NewRBACHandler(svc *app.RBACService, logger *logrus.Logger) *RBACHandler {
	return &RBACHandler{Svc: svc, Logger: logger}
}

type roleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type permissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// updateNameRequest carries a partial update; a description key that is
// absent from the body stays nil and leaves the stored value untouched.
type updateNameRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func permView(p *entity.Permission) gin.H {
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

func roleView(r *entity.Role) gin.H {
	perms := make([]gin.H, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, permView(&r.Permissions[i]))
	}
	return gin.H{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
		"permissions": perms,
		"createdAt":   r.CreatedAt,
		"updatedAt":   r.UpdatedAt,
	}
}

func (h *RBACHandler) CreateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role, err := h.Svc.CreateRole(c.Request.Context(), middleware.Principal(c), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, roleView(role), "role created", nil)
}

func (h *RBACHandler) GetRole(c *gin.Context) {
	role, err := h.Svc.GetRole(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roleView(role), "role", nil)
}

func (h *RBACHandler) ListRoles(c *gin.Context) {
	roles, err := h.Svc.ListRoles(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(roles))
	for i := range roles {
		views = append(views, roleView(&roles[i]))
	}
	response.Success(c, http.StatusOK, views, "roles", nil)
}

func (h *RBACHandler) UpdateRole(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	role, err := h.Svc.UpdateRole(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roleView(role), "role updated", nil)
}

func (h *RBACHandler) DeleteRole(c *gin.Context) {
	if err := h.Svc.DeleteRole(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "role deleted", nil)
}

func (h *RBACHandler) CreatePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	perm, err := h.Svc.CreatePermission(c.Request.Context(), middleware.Principal(c), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, permView(perm), "permission created", nil)
}

func (h *RBACHandler) GetPermission(c *gin.Context) {
	perm, err := h.Svc.GetPermission(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, permView(perm), "permission", nil)
}

func (h *RBACHandler) ListPermissions(c *gin.Context) {
	perms, err := h.Svc.ListPermissions(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(perms))
	for i := range perms {
		views = append(views, permView(&perms[i]))
	}
	response.Success(c, http.StatusOK, views, "permissions", nil)
}

func (h *RBACHandler) UpdatePermission(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	perm, err := h.Svc.UpdatePermission(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, permView(perm), "permission updated", nil)
}

func (h *RBACHandler) DeletePermission(c *gin.Context) {
	if err := h.Svc.DeletePermission(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "permission deleted", nil)
}

// AttachPermission links a permission to a role and echoes the updated role.
func (h *RBACHandler) AttachPermission(c *gin.Context) {
	role, err := h.Svc.AttachPermission(c.Request.Context(), middleware.Principal(c), c.Param("id"), c.Param("permissionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roleView(role), "permission attached", nil)
}

func (h *RBACHandler) DetachPermission(c *gin.Context) {
	if err := h.Svc.DetachPermission(c.Request.Context(), middleware.Principal(c), c.Param("id"), c.Param("permissionId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"detached": true}, "permission detached", nil)
}

func (h *RBACHandler) AssignRole(c *gin.Context) {
	if err := h.Svc.AssignRole(c.Request.Context(), middleware.Principal(c), c.Param("id"), c.Param("roleId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"assigned": true}, "role assigned", nil)
}

func (h *RBACHandler) RemoveRole(c *gin.Context) {
	if err := h.Svc.RemoveRole(c.Request.Context(), middleware.Principal(c), c.Param("id"), c.Param("roleId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "role removed", nil)
}
