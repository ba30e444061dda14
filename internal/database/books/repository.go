// Package books provides database operations for the book catalog.
//
// Every mutating method runs as its own statement or transaction, so a call that
// returns without error has been committed.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	err := repo.Add(&entities.Book{Title: "Dune", Author: "Frank Herbert", Rating: 8.5})
//	all, err := repo.ListAll()
package books

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrNotFound       = errors.New("book not found")
	ErrDuplicateTitle = errors.New("a book with this title already exists")
)

// Fields lists the columns to change in Update. Nil fields are left as they are.
type Fields struct {
	Title  *string
	Author *string
	Rating *float64
}

func (f Fields) columns() map[string]any {
	cols := make(map[string]any, 3)
	if f.Title != nil {
		cols["title"] = *f.Title
	}
	if f.Author != nil {
		cols["author"] = *f.Author
	}
	if f.Rating != nil {
		cols["rating"] = *f.Rating
	}
	return cols
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a new book and sets its ID.
func (r *Repository) Add(book *entities.Book) error {
	book.ID = 0
	if err := r.db.Create(book).Error; err != nil {
		return translate(err)
	}
	return nil
}

// ListAll returns every book in primary key order.
func (r *Repository) ListAll() ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// FindByID retrieves a book by its ID.
func (r *Repository) FindByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// FindByTitle retrieves a book by its exact title.
func (r *Repository) FindByTitle(title string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("title = ?", title).First(&book).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches books by title or author (case-insensitive partial match).
func (r *Repository) Search(query string) ([]entities.Book, error) {
	books := []entities.Book{}
	searchPattern := "%" + likeEscaper.Replace(query) + "%"
	err := r.db.
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(author) LIKE LOWER(?) ESCAPE '\'`, searchPattern, searchPattern).
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// Update changes the given fields of a book and returns the stored result.
func (r *Repository) Update(id uint, fields Fields) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		cols := fields.columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&book, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// Delete removes a book. IDs of the remaining books do not change.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicateTitle
	default:
		return fmt.Errorf("books: %w", err)
	}
}

// isUniqueViolation covers both connections opened with gorm's TranslateError
// and raw driver errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
