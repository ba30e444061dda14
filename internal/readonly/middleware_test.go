package readonly

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.InjectContext())
	router.Use(m.Handler())
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
	router.GET("/", ok)
	router.GET("/delete", ok)
	router.POST("/add", ok)
	router.POST("/delete", ok)
	router.GET("/flag", func(c *gin.Context) {
		if c.GetBool(ContextKeyReadOnly) {
			c.String(http.StatusOK, "read-only")
			return
		}
		c.String(http.StatusOK, "writable")
	})
	return router
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		method  string
		path    string
		want    int
	}{
		{"disabled allows POST", false, http.MethodPost, "/add", http.StatusOK},
		{"disabled allows GET delete", false, http.MethodGet, "/delete", http.StatusOK},
		{"enabled allows GET", true, http.MethodGet, "/", http.StatusOK},
		{"enabled blocks POST", true, http.MethodPost, "/add", http.StatusForbidden},
		{"enabled blocks POST delete", true, http.MethodPost, "/delete", http.StatusForbidden},
		{"enabled blocks GET delete", true, http.MethodGet, "/delete", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(NewMiddleware(tt.enabled, "/delete"))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMiddleware_JSONResponse(t *testing.T) {
	router := newRouter(NewMiddleware(true))

	req := httptest.NewRequest(http.MethodPost, "/add", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"The library is read-only","read_only":true}`, w.Body.String())
}

func TestMiddleware_InjectContext(t *testing.T) {
	for enabled, want := range map[bool]string{true: "read-only", false: "writable"} {
		router := newRouter(NewMiddleware(enabled))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/flag", nil))

		assert.Equal(t, want, w.Body.String())
		assert.Equal(t, enabled, NewMiddleware(enabled).IsEnabled())
	}
}
