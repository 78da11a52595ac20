package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/container"
	handlers "github.com/velora-social/velora-api/internal/interface/http"
	"github.com/velora-social/velora-api/internal/interface/middleware"
)

// RelationModule wires the follow graph.
// Public: GET /api/users/:id/followers, GET /api/users/:id/following
// Protected: POST /api/users/:id/follow, DELETE /api/users/:id/following/:targetId
type RelationModule struct {
	Handler *handlers.RelationHandler
	Auth    *app.AuthService
}

func NewRelationModule(h *handlers.RelationHandler, auth *app.AuthService) *RelationModule {
	return &RelationModule{Handler: h, Auth: auth}
}

func (m *RelationModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/")
	public.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		public.GET("/users/:id/followers", m.Handler.Followers)
		public.GET("/users/:id/following", m.Handler.Following)
	}

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT(), m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/users/:id/follow", m.Handler.Follow)
		auth.DELETE("/users/:id/following/:targetId", m.Handler.Unfollow)
	}
}
