package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/interface/middleware"
)

// UserModule wires user search and bulk import.
// Protected: GET /api/users/search, POST /api/users/bulk-import
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *app.AuthService
}

func NewUserModule(h *handlers.UserHandler, auth *app.AuthService) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT(), m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/search", m.Handler.Search)
		// heavier operation, tighter limit
		auth.POST("/users/bulk-import", middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.BulkImport)
	}
}
