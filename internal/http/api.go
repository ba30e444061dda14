package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BooksResponse is the JSON shape of a book listing.
type BooksResponse struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

type BooksController struct {
	service CatalogService
}

func NewBooksController(service CatalogService) *BooksController {
	return &BooksController{service: service}
}

// ListBooks returns the catalog, optionally filtered by title or author.
// GET /api/books?q=
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.service.SearchBooks(c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, BooksResponse{Books: books, Count: len(books)})
}

// GetBook returns one book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid id")
		return
	}

	book, err := bc.service.GetBook(uint(id))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "book not found"})
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}
