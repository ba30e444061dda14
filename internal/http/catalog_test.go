package http

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/readonly"
)

func TestCatalogController_Index(t *testing.T) {
	t.Run("lists books in id order", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "Harry Potter", "J. K. Rowling", "9.3")
		app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := get(app.router(), "/")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Harry Potter")
		assert.Contains(t, body, "9.3/10")
		assert.Less(t, indexOf(body, "Harry Potter"), indexOf(body, "Dune"))
		assert.Contains(t, body, `href="/edit?book_id=1"`)
	})

	t.Run("shows empty library", func(t *testing.T) {
		app := setupTestApp(t)

		w := get(app.router(), "/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Library is empty.")
	})

	t.Run("renders error page when storage fails", func(t *testing.T) {
		app := setupTestApp(t)
		router := app.router(func(cfg *RouterConfig) { cfg.Catalog = failingCatalog{} })

		w := get(router, "/")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
		assert.NotContains(t, w.Body.String(), errStorage.Error())
	})
}

func TestCatalogController_AddBook(t *testing.T) {
	t.Run("renders empty form", func(t *testing.T) {
		app := setupTestApp(t)

		w := get(app.router(), "/add")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="title"`)
		assert.Contains(t, w.Body.String(), `name="rating"`)
	})

	t.Run("creates book and redirects", func(t *testing.T) {
		app := setupTestApp(t)

		w := postForm(app.router(), "/add", map[string]string{
			"title": "Dune", "author": "Frank Herbert", "rating": "8.5",
		})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		all, err := app.catalog.AllBooks()
		require.NoError(t, err)
		assert.Equal(t, []entities.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", Rating: 8.5}}, all)
	})

	t.Run("missing field re-renders form with values", func(t *testing.T) {
		app := setupTestApp(t)

		w := postForm(app.router(), "/add", map[string]string{
			"title": "Dune", "author": "", "rating": "8.5",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Author is required")
		assert.Contains(t, w.Body.String(), `value="Dune"`)
	})

	t.Run("non numeric rating re-renders form", func(t *testing.T) {
		app := setupTestApp(t)

		w := postForm(app.router(), "/add", map[string]string{
			"title": "Dune", "author": "Frank Herbert", "rating": "great",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "is not a number")

		all, err := app.catalog.AllBooks()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("duplicate title re-renders form", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := postForm(app.router(), "/add", map[string]string{
			"title": "Dune", "author": "Someone Else", "rating": "1",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")

		all, err := app.catalog.AllBooks()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Frank Herbert", all[0].Author)
	})

	t.Run("storage failure renders error page", func(t *testing.T) {
		app := setupTestApp(t)
		router := app.router(func(cfg *RouterConfig) { cfg.Catalog = failingCatalog{} })

		w := postForm(router, "/add", map[string]string{
			"title": "Dune", "author": "Frank Herbert", "rating": "8.5",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCatalogController_EditForm(t *testing.T) {
	app := setupTestApp(t)
	book := app.addBook(t, "Dune", "Frank Herbert", "8.5")
	router := app.router()

	w := get(router, "/edit?book_id="+strconv.Itoa(int(book.ID)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="new_rating" value="8.5"`)
	assert.Contains(t, w.Body.String(), `name="book_id" value="1"`)

	for _, target := range []string{"/edit", "/edit?book_id=", "/edit?book_id=abc", "/edit?book_id=99"} {
		w := get(router, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Contains(t, w.Body.String(), "Book not found", target)
	}
}

func TestCatalogController_EditBook(t *testing.T) {
	t.Run("updates rating and redirects", func(t *testing.T) {
		app := setupTestApp(t)
		book := app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := postForm(app.router(), "/edit", map[string]string{"book_id": "1", "new_rating": "9"})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		stored, err := app.catalog.GetBook(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 9.0, stored.Rating)
		assert.Equal(t, "Dune", stored.Title)
	})

	t.Run("renames when a new title is given", func(t *testing.T) {
		app := setupTestApp(t)
		book := app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := postForm(app.router(), "/edit", map[string]string{"book_id": "1", "new_rating": "9", "new_title": "Dune Messiah"})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		stored, err := app.catalog.GetBook(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", stored.Title)
	})

	t.Run("rename collision re-renders form", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "Dune", "Frank Herbert", "8.5")
		app.addBook(t, "Emma", "Jane Austen", "7")

		w := postForm(app.router(), "/edit", map[string]string{"book_id": "2", "new_rating": "7", "new_title": "Dune"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("invalid rating re-renders form", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := postForm(app.router(), "/edit", map[string]string{"book_id": "1", "new_rating": "ten"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "is not a number")
		assert.Contains(t, w.Body.String(), "Frank Herbert")
	})

	t.Run("missing rating re-renders form", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "Dune", "Frank Herbert", "8.5")

		w := postForm(app.router(), "/edit", map[string]string{"book_id": "1"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Rating is required")
	})

	t.Run("unknown or missing book is not found", func(t *testing.T) {
		app := setupTestApp(t)
		router := app.router()

		for _, values := range []map[string]string{
			{"book_id": "42", "new_rating": "9"},
			{"new_rating": "9"},
			{"book_id": "x", "new_rating": "9"},
		} {
			w := postForm(router, "/edit", values)
			assert.Equal(t, http.StatusNotFound, w.Code, values)
		}
	})
}

func TestCatalogController_DeleteBook(t *testing.T) {
	t.Run("GET deletes and redirects", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "One", "A", "1")
		app.addBook(t, "Two", "B", "2")
		app.addBook(t, "Three", "C", "3")

		w := get(app.router(), "/delete?book_id=2")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		all, err := app.catalog.AllBooks()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, uint(1), all[0].ID)
		assert.Equal(t, uint(3), all[1].ID)
	})

	t.Run("POST deletes and redirects", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "One", "A", "1")

		w := postForm(app.router(), "/delete", map[string]string{"book_id": "1"})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		_, err := app.catalog.GetBook(1)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("missing or unknown id is not found", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "One", "A", "1")
		router := app.router()

		for _, target := range []string{"/delete", "/delete?book_id=7", "/delete?book_id=-1"} {
			w := get(router, target)
			assert.Equal(t, http.StatusNotFound, w.Code, target)
			assert.Contains(t, w.Body.String(), "Book not found")
		}

		all, err := app.catalog.AllBooks()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("read-only mode blocks delete", func(t *testing.T) {
		app := setupTestApp(t)
		app.addBook(t, "One", "A", "1")
		router := app.router(func(cfg *RouterConfig) {
			cfg.ReadOnly = readonly.NewMiddleware(true, "/delete")
		})

		assert.Equal(t, http.StatusForbidden, get(router, "/delete?book_id=1").Code)
		assert.Equal(t, http.StatusForbidden, postForm(router, "/delete", map[string]string{"book_id": "1"}).Code)

		w := get(router, "/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Delete</button>")

		_, err := app.catalog.GetBook(1)
		assert.NoError(t, err)
	})
}

func TestRouter_NoRoute(t *testing.T) {
	app := setupTestApp(t)

	w := get(app.router(), "/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
