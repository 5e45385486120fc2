package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"presales-tracker/internal/middleware"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(user *models.User, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("0123456789abcdef"))))
	r.Use(func(c *gin.Context) {
		if user != nil {
			session.SetCurrentUser(c, user)
		}
		c.Next()
	})
	r.GET("/x", guard, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequireAuth(t *testing.T) {
	w := serve(newEngine(nil, middleware.RequireAuth()))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(newEngine(&models.User{Role: models.RoleViewer}, middleware.RequireAuth()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	guard := middleware.RequireRole(models.RoleAdmin, models.RoleSales)

	w := serve(newEngine(&models.User{Role: models.RoleSales}, guard))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(newEngine(&models.User{Role: models.RoleViewer}, guard))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies(), "flash should be stored in the session")

	w = serve(newEngine(nil, guard))
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("RequestID")) })

	w := serve(r)
	id := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(middleware.RequestIDHeader))
}
