package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/freelancehub/internal/entity"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	"anoa.com/freelancehub/internal/testutil"
	"anoa.com/freelancehub/pkg/jwtauth"
	"anoa.com/freelancehub/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *jwtauth.Signer, map[entity.Role]*entity.User) {
	t.Helper()
	db := testutil.NewDB(t)
	signer := jwtauth.NewSigner("secret", time.Minute, time.Hour)
	m := NewAuthMiddleware(userRepo.NewUserRepository(db), signer)

	users := map[entity.Role]*entity.User{
		entity.RoleClient: testutil.SeedUser(t, db, "client@example.com", entity.RoleClient),
		entity.RoleAdmin:  testutil.SeedUser(t, db, "admin@example.com", entity.RoleAdmin),
	}

	r := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.GetString("user_id")) }
	r.GET("/me", m.RequireAuth(), ok)
	r.GET("/clients", m.RequireAuth(), m.RequireRole(entity.RoleClient), ok)
	r.GET("/admin", m.RequireAuth(), m.RequireAdmin(), ok)
	return r, signer, users
}

func do(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, signer, users := newRouter(t)
	client := users[entity.RoleClient]
	access, refresh, err := signer.Pair(client.ID.String(), string(client.Role))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", refresh).Code)

	w := do(r, "/me", access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, client.ID.String(), w.Body.String())

	w = do(r, "/me?token="+access, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAndAdmin(t *testing.T) {
	r, signer, users := newRouter(t)
	client, admin := users[entity.RoleClient], users[entity.RoleAdmin]
	clientToken, _, err := signer.Pair(client.ID.String(), string(client.Role))
	require.NoError(t, err)
	adminToken, _, err := signer.Pair(admin.ID.String(), string(admin.Role))
	require.NoError(t, err)
	forgedAdmin, _, err := signer.Pair(client.ID.String(), string(entity.RoleAdmin))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, "/clients", clientToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/clients", adminToken).Code)

	assert.Equal(t, http.StatusOK, do(r, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", clientToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", forgedAdmin).Code)
}

func TestRateLimitWithoutRedisAllows(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(ratelimiter.New(nil, 1, time.Minute), "test"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
	}
}

func TestRateLimitRejectsOnceWindowIsFull(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	r := gin.New()
	r.GET("/", RateLimit(ratelimiter.New(rdb, 2, time.Minute), "test"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)

	w := do(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body["status"])
}

func TestRateLimitLetsRequestsThroughWhenRedisIsDown(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	mr.Close()
	r := gin.New()
	r.GET("/", RateLimit(ratelimiter.New(rdb, 1, time.Minute), "test"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/", "").Code)
}
