package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/interface/middleware"
)

// ProfileModule wires profile reads and edits.
// Public: GET /api/users/:id/public-profile
// Protected: GET /api/users/:id/profile plus every profile mutation
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Auth    *app.AuthService
}

func NewProfileModule(h *handlers.ProfileHandler, auth *app.AuthService) *ProfileModule {
	return &ProfileModule{Handler: h, Auth: auth}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/users/:id/public-profile", publicLimiter, m.Handler.GetPublic)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT(), m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/users/:id/profile", m.Handler.GetFull)
		auth.PUT("/users/:id/short-bio", m.Handler.UpdateShortBio)
		auth.PUT("/users/:id/long-bio", m.Handler.UpdateLongBio)
		auth.PUT("/users/:id/interests", m.Handler.UpdateInterests)
		auth.PUT("/users/:id/social-links", m.Handler.UpdateSocialLinks)
		auth.PUT("/users/:id/profile-picture", m.Handler.UpdateProfilePicture)
		auth.PUT("/users/:id/cover-picture", m.Handler.UpdateCoverPicture)
		auth.POST("/users/:id/profile-picture/upload", m.Handler.UploadProfilePicture)
	}
}
