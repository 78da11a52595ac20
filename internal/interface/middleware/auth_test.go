package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/pkg/helpers"
)

type staticLoader struct {
	user *entity.User
	err  error
}

func (l staticLoader) LoadPrincipal(context.Context, string) (*entity.User, error) {
	return l.user, l.err
}

func authTestRouter(t *testing.T, loader PrincipalLoader) (*gin.Engine, *redis.Client, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	r := gin.New()
	r.GET("/protected", Auth(rdb, jwt, loader), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserIDKey)})
	})
	return r, rdb, jwt
}

func seedSession(t *testing.T, rdb *redis.Client, userID, sid string) {
	t.Helper()
	require.NoError(t, rdb.HSet(context.Background(), "user:session:"+userID, map[string]any{
		"user_id": userID,
		"sid":     sid,
	}).Err())
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	u := &entity.User{ID: "user-1", Email: "a@example.com"}
	r, rdb, jwt := authTestRouter(t, staticLoader{user: u})
	seedSession(t, rdb, "user-1", "sess-1")

	token, _, err := jwt.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _, _ := authTestRouter(t, staticLoader{user: &entity.User{ID: "user-1"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r, rdb, jwt := authTestRouter(t, staticLoader{user: &entity.User{ID: "user-1"}})
	seedSession(t, rdb, "user-1", "sess-1")
	token, _, err := jwt.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	r, _, _ := authTestRouter(t, staticLoader{user: &entity.User{ID: "user-1"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMissingSession(t *testing.T) {
	r, _, jwt := authTestRouter(t, staticLoader{user: &entity.User{ID: "user-1"}})

	token, _, err := jwt.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsRotatedSession(t *testing.T) {
	r, rdb, jwt := authTestRouter(t, staticLoader{user: &entity.User{ID: "user-1"}})
	// session was rotated to a new sid after the token was issued
	seedSession(t, rdb, "user-1", "sess-2")

	token, _, err := jwt.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPrincipalHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Principal(c))

	u := &entity.User{ID: "user-1"}
	c.Set(CtxPrincipalKey, u)
	assert.Equal(t, u, Principal(c))
}
