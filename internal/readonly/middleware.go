// Package readonly serves the catalog without letting anyone change it.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyReadOnly is set on every request so templates can hide edit controls.
const ContextKeyReadOnly = "read_only"

const blockedMessage = "The library is read-only"

// Middleware blocks every request that would change the catalog.
// Safe methods pass unless their path is listed as mutating, which covers the
// GET /delete link.
type Middleware struct {
	enabled       bool
	mutatingPaths []string
}

// NewMiddleware creates a read-only middleware. mutatingPaths lists GET
// routes that still change state.
func NewMiddleware(enabled bool, mutatingPaths ...string) *Middleware {
	return &Middleware{enabled: enabled, mutatingPaths: mutatingPaths}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that rejects mutating requests with 403.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if !m.isMutatingPath(c.Request.URL.Path) {
				c.Next()
				return
			}
		}

		m.respondBlocked(c)
	}
}

// InjectContext exposes the read-only flag to handlers and templates.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)
		c.Next()
	}
}

func (m *Middleware) isMutatingPath(path string) bool {
	for _, p := range m.mutatingPaths {
		if path == p {
			return true
		}
	}
	return false
}

func (m *Middleware) respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     blockedMessage,
			"read_only": true,
		})
		return
	}

	c.String(http.StatusForbidden, blockedMessage)
	c.Abort()
}
