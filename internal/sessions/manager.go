// Package sessions keeps short-lived per-browser state, mostly flash messages
// shown after a redirect.
package sessions

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookshelf/internal/config"
)

const flashKey = "flash"

// FlashKind decides how a flash message is styled.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-time message displayed on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Manager wraps scs.SessionManager with flash helpers.
type Manager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// NewManager creates the sessions table if needed and returns a manager
// storing session data in it. sqlDB should be the *sql.DB behind GORM.
func NewManager(sqlDB *sql.DB, cfg config.Sessions, secureCookies bool) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	store := sqlite3store.New(sqlDB)

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = lifetime
	sm.Cookie.Name = "bookshelf_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm, store: store}, nil
}

// SetFlash replaces any pending flash message.
func (m *Manager) SetFlash(ctx context.Context, kind FlashKind, message string) {
	m.Put(ctx, flashKey, Flash{Kind: kind, Message: message})
}

// PopFlash returns the pending flash message and clears it.
func (m *Manager) PopFlash(ctx context.Context) (Flash, bool) {
	flash, ok := m.Pop(ctx, flashKey).(Flash)
	return flash, ok
}

// Close stops the background cleanup of expired sessions.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
