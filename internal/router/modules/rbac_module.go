package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/interface/middleware"
)

// RBACModule wires role and permission administration. Every route requires
// authentication; the service layer additionally requires the admin role.
type RBACModule struct {
	Handler *handlers.RBACHandler
	Auth    *app.AuthService
}

func NewRBACModule(h *handlers.RBACHandler, auth *app.AuthService) *RBACModule {
	return &RBACModule{Handler: h, Auth: auth}
}

func (m *RBACModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT(), m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/roles", m.Handler.CreateRole)
		auth.GET("/roles", m.Handler.ListRoles)
		auth.GET("/roles/:id", m.Handler.GetRole)
		auth.PUT("/roles/:id", m.Handler.UpdateRole)
		auth.DELETE("/roles/:id", m.Handler.DeleteRole)
		auth.POST("/roles/:id/permissions/:permissionId", m.Handler.AttachPermission)
		auth.DELETE("/roles/:id/permissions/:permissionId", m.Handler.DetachPermission)

		auth.POST("/permissions", m.Handler.CreatePermission)
		auth.GET("/permissions", m.Handler.ListPermissions)
		auth.GET("/permissions/:id", m.Handler.GetPermission)
		auth.PUT("/permissions/:id", m.Handler.UpdatePermission)
		auth.DELETE("/permissions/:id", m.Handler.DeletePermission)

		auth.POST("/users/:id/roles/:roleId", m.Handler.AssignRole)
		auth.DELETE("/users/:id/roles/:roleId", m.Handler.RemoveRole)
	}
}
