package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-marketplace-client/api"
	"food-marketplace-client/broadcast"
	"food-marketplace-client/models"
	"food-marketplace-client/session"
	"food-marketplace-client/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubAuth struct{ user models.User }

func (s stubAuth) Login(ctx context.Context, email, password string) (api.AuthResult, error) {
	return api.AuthResult{User: s.user, Token: "tok"}, nil
}

func (s stubAuth) Register(ctx context.Context, reg api.Registration) (api.AuthResult, error) {
	return api.AuthResult{User: s.user, Token: "tok"}, nil
}

func (s stubAuth) Logout(ctx context.Context) error { return nil }

func (s stubAuth) CurrentUser(ctx context.Context) (models.User, error) { return s.user, nil }

func newSession(t *testing.T, role models.UserRole) *session.Holder {
	t.Helper()
	auth := stubAuth{user: models.User{ID: "5", Name: "Pat", Role: role}}
	sess, err := session.New(storage.NewMemoryStore(), auth, broadcast.NewHub(), zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return sess
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSessionAndRoleRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sess := newSession(t, models.RoleCustomer)

	r := gin.New()
	r.GET("/me", SessionRequired(sess), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.Name)
	})
	r.GET("/kitchen", SessionRequired(sess), RoleRequired(models.RoleChef), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me").Code)

	_, err := sess.Login(context.Background(), "pat@example.com", "secret1")
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/me")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pat", w.Body.String())

	w = serve(r, http.MethodGet, "/kitchen")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required role(s): chef")
}

func TestRoleRequired_WithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RoleRequired(models.RoleChef, models.RoleCustomer), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/").Code)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core).Sugar()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := serve(r, http.MethodGet, "/ok")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "abc-123", entries[1].ContextMap()["request_id"])
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/x")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
