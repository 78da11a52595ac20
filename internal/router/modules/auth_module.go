package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/interface/middleware"
)

// AuthModule wires account and session routes.
// Public: POST /api/register, /api/login, /api/refresh
// Protected: POST /api/logout, GET /api/me, POST /api/change-password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    *app.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, auth *app.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT(), m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.POST("/change-password", m.Handler.ChangePassword)
	}
}
