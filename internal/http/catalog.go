package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

const bookNotFound = "Book not found"

// CatalogService is the catalog the HTML and JSON controllers work against.
type CatalogService interface {
	CreateBook(input catalog.NewBookInput) (*entities.Book, error)
	AllBooks() ([]entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	GetBook(id uint) (*entities.Book, error)
	SetRating(id uint, rating string) (*entities.Book, error)
	UpdateBook(id uint, input catalog.EditBookInput) (*entities.Book, error)
	RemoveBook(id uint) (*entities.Book, error)
}

// Per-endpoint parameters. Each handler binds only what it reads.
type (
	addBookForm struct {
		Title  string `form:"title" binding:"required,max=250"`
		Author string `form:"author" binding:"required,max=250"`
		Rating string `form:"rating" binding:"required"`
	}

	bookIDQuery struct {
		BookID uint `form:"book_id" binding:"required"`
	}

	editBookForm struct {
		BookID    uint   `form:"book_id" binding:"required"`
		NewRating string `form:"new_rating" binding:"required"`
		NewTitle  string `form:"new_title" binding:"max=250"`
	}
)

type CatalogController struct {
	service CatalogService
	views   views
}

func NewCatalogController(service CatalogService, v views) *CatalogController {
	return &CatalogController{service: service, views: v}
}

// Index renders the library.
// GET /
func (cc *CatalogController) Index(c *gin.Context) {
	books, err := cc.service.AllBooks()
	if err != nil {
		cc.views.internalError(c, err, "list books")
		return
	}

	cc.views.render(c, http.StatusOK, "index", gin.H{
		"Books": books,
		"Count": len(books),
	})
}

// AddForm renders an empty add form.
// GET /add
func (cc *CatalogController) AddForm(c *gin.Context) {
	cc.views.render(c, http.StatusOK, "add", gin.H{
		"Form": addBookForm{},
	})
}

// AddBook creates a book from the submitted form.
// POST /add
func (cc *CatalogController) AddBook(c *gin.Context) {
	var form addBookForm
	if err := c.ShouldBind(&form); err != nil {
		cc.renderAdd(c, http.StatusUnprocessableEntity, form, bindingMessages(err))
		return
	}

	book, err := cc.service.CreateBook(catalog.NewBookInput{
		Title:  form.Title,
		Author: form.Author,
		Rating: form.Rating,
	})

	var verr *catalog.ValidationError
	switch {
	case err == nil:
		cc.views.flash(c, sessions.FlashSuccess, fmt.Sprintf("Added %q", book.Title))
		cc.views.redirectHome(c)
	case errors.As(err, &verr):
		cc.renderAdd(c, http.StatusUnprocessableEntity, form, []string{capitalize(verr.Message)})
	case errors.Is(err, catalog.ErrDuplicateTitle):
		cc.renderAdd(c, http.StatusConflict, form, []string{fmt.Sprintf("A book titled %q already exists", strings.TrimSpace(form.Title))})
	default:
		cc.views.internalError(c, err, "add book")
	}
}

// EditForm renders the edit form for one book.
// GET /edit?book_id=X
func (cc *CatalogController) EditForm(c *gin.Context) {
	var query bookIDQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		cc.views.notFound(c, bookNotFound)
		return
	}

	book, ok := cc.loadBook(c, query.BookID)
	if !ok {
		return
	}

	cc.views.render(c, http.StatusOK, "edit", gin.H{
		"Book": book,
		"Form": editBookForm{BookID: book.ID, NewRating: formatRating(book.Rating), NewTitle: book.Title},
	})
}

// EditBook stores a new rating, and a new title when one is given.
// POST /edit
func (cc *CatalogController) EditBook(c *gin.Context) {
	var form editBookForm
	if err := c.ShouldBind(&form); err != nil {
		if form.BookID == 0 {
			cc.views.notFound(c, bookNotFound)
			return
		}
		cc.renderEdit(c, http.StatusUnprocessableEntity, form, bindingMessages(err))
		return
	}

	var book *entities.Book
	var err error
	if strings.TrimSpace(form.NewTitle) == "" {
		book, err = cc.service.SetRating(form.BookID, form.NewRating)
	} else {
		book, err = cc.service.UpdateBook(form.BookID, catalog.EditBookInput{
			Title:  form.NewTitle,
			Rating: form.NewRating,
		})
	}

	var verr *catalog.ValidationError
	switch {
	case err == nil:
		cc.views.flash(c, sessions.FlashSuccess, fmt.Sprintf("Updated %q", book.Title))
		cc.views.redirectHome(c)
	case errors.Is(err, catalog.ErrNotFound):
		cc.views.notFound(c, bookNotFound)
	case errors.As(err, &verr):
		cc.renderEdit(c, http.StatusUnprocessableEntity, form, []string{capitalize(verr.Message)})
	case errors.Is(err, catalog.ErrDuplicateTitle):
		cc.renderEdit(c, http.StatusConflict, form, []string{fmt.Sprintf("A book titled %q already exists", strings.TrimSpace(form.NewTitle))})
	default:
		cc.views.internalError(c, err, "edit book")
	}
}

// DeleteBook removes a book. Served on GET for links and on POST for forms.
// GET /delete?book_id=X, POST /delete
func (cc *CatalogController) DeleteBook(c *gin.Context) {
	var query bookIDQuery
	if err := c.ShouldBind(&query); err != nil {
		cc.views.notFound(c, bookNotFound)
		return
	}

	book, err := cc.service.RemoveBook(query.BookID)
	switch {
	case err == nil:
		cc.views.flash(c, sessions.FlashSuccess, fmt.Sprintf("Deleted %q", book.Title))
		cc.views.redirectHome(c)
	case errors.Is(err, catalog.ErrNotFound):
		cc.views.notFound(c, bookNotFound)
	default:
		cc.views.internalError(c, err, "delete book")
	}
}

func (cc *CatalogController) loadBook(c *gin.Context, id uint) (*entities.Book, bool) {
	book, err := cc.service.GetBook(id)
	switch {
	case err == nil:
		return book, true
	case errors.Is(err, catalog.ErrNotFound):
		cc.views.notFound(c, bookNotFound)
	default:
		cc.views.internalError(c, err, "load book")
	}
	return nil, false
}

func (cc *CatalogController) renderAdd(c *gin.Context, status int, form addBookForm, errs []string) {
	cc.views.render(c, status, "add", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}

func (cc *CatalogController) renderEdit(c *gin.Context, status int, form editBookForm, errs []string) {
	book, ok := cc.loadBook(c, form.BookID)
	if !ok {
		return
	}
	cc.views.render(c, status, "edit", gin.H{
		"Book":   book,
		"Form":   form,
		"Errors": errs,
	})
}
