// Package security holds the browser-facing protections applied to every
// request: CSRF tokens for forms and a restrictive set of response headers.
package security

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// TokenFieldName is the form field gorilla/csrf reads the token from.
const TokenFieldName = "gorilla.csrf.Token"

const (
	contextKeyToken = "csrf_token"
	contextKeyField = "csrf_field"
)

// CSRF returns a middleware that rejects unsafe requests without a valid token.
// secure must be false when the app is served over plain HTTP, otherwise
// gorilla/csrf insists on an HTTPS referer.
func CSRF(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.FieldName(TokenFieldName),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(contextKeyToken, csrf.Token(r))
			c.Set(contextKeyField, csrf.TemplateField(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form was missing its security token or it has expired.</p>
<p><a href="/">Back to the library</a></p>
</body>
</html>`))
}

// Token returns the CSRF token for the current request, or "" when CSRF
// protection is disabled.
func Token(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// Field returns the hidden input carrying the CSRF token.
func Field(c *gin.Context) template.HTML {
	if field, ok := c.Get(contextKeyField); ok {
		if html, ok := field.(template.HTML); ok {
			return html
		}
	}
	return ""
}

// ResolveSecret decodes a configured secret, accepting hex or raw bytes.
// When nothing is configured a random secret is generated and generated is true.
func ResolveSecret(configured string) (secret []byte, generated bool, err error) {
	if configured != "" {
		if decoded, err := hex.DecodeString(configured); err == nil {
			return decoded, false, nil
		}
		return []byte(configured), false, nil
	}

	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, err
	}
	return secret, true, nil
}
