package http

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	actsvc "github.com/mrlokans/bookshelf/internal/activity"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/activity"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const testTemplatesPath = "../../templates"

type testApp struct {
	db       *database.Database
	catalog  *catalog.Service
	activity *actsvc.Service
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	activityService := actsvc.NewService(activity.NewRepository(db.DB))
	return &testApp{
		db:       db,
		catalog:  catalog.NewService(books.NewRepository(db.DB), activityService),
		activity: activityService,
	}
}

func (a *testApp) router(mutators ...func(*RouterConfig)) *gin.Engine {
	cfg := RouterConfig{
		Catalog:       a.catalog,
		Activity:      a.activity,
		Database:      a.db,
		TemplatesPath: testTemplatesPath,
		Version:       "test",
	}
	for _, m := range mutators {
		m(&cfg)
	}
	return NewRouter(cfg)
}

func (a *testApp) addBook(t *testing.T, title, author, rating string) *entities.Book {
	t.Helper()
	book, err := a.catalog.CreateBook(catalog.NewBookInput{Title: title, Author: author, Rating: rating})
	require.NoError(t, err)
	return book
}

func formBody(values map[string]string) io.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return strings.NewReader(form.Encode())
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func postForm(router http.Handler, target string, values map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, formBody(values))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var errStorage = errors.New("database is locked")

// failingCatalog fails every call with errStorage.
type failingCatalog struct{}

func (failingCatalog) CreateBook(catalog.NewBookInput) (*entities.Book, error) { return nil, errStorage }
func (failingCatalog) AllBooks() ([]entities.Book, error)                       { return nil, errStorage }
func (failingCatalog) SearchBooks(string) ([]entities.Book, error)              { return nil, errStorage }
func (failingCatalog) GetBook(uint) (*entities.Book, error)                     { return nil, errStorage }
func (failingCatalog) SetRating(uint, string) (*entities.Book, error)           { return nil, errStorage }
func (failingCatalog) RemoveBook(uint) (*entities.Book, error)                  { return nil, errStorage }
func (failingCatalog) UpdateBook(uint, catalog.EditBookInput) (*entities.Book, error) {
	return nil, errStorage
}
