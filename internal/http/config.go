package http

import (
	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogService
	Activity ActivityReader
	Database Pinger

	// Task queue (optional)
	Tasks                 TaskQueue
	ActivityRetentionDays int

	// Flash messages (optional)
	Sessions *sessions.Manager

	// CSRF protection is enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Read-only mode (optional)
	ReadOnly *readonly.Middleware

	// UI paths
	TemplatesPath string

	// Application info
	Version string
}
