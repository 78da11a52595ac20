package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/pkg/helpers"
	"github.com/velora-social/velora-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// PrincipalLoader resolves an authenticated user id into the full user with
// assigned roles and permissions.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID string) (*entity.User, error)
}

// Auth validates the bearer access token, checks the Redis session bound to
// its session id, and loads the principal into the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager, loader PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 {
				response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
			if data["sid"] != claims.SessionID {
				response.AbortError(c, http.StatusUnauthorized, "session revoked", nil)
				return
			}
		}

		principal, err := loader.LoadPrincipal(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "account no longer exists", nil)
			return
		}

		c.Set(CtxUserIDKey, principal.ID)
		c.Set(CtxPrincipalKey, principal)
		c.Next()
	}
}

// Principal returns the authenticated user stored by Auth, or nil.
func Principal(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
