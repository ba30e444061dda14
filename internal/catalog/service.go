// Package catalog sits between raw user input and the book store. It trims and
// checks submitted values, converts ratings to numbers, and reports committed
// changes to the activity log.
package catalog

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// MaxFieldLength matches the column size of title and author.
const MaxFieldLength = 250

// BookStore is the persistence the catalog needs.
type BookStore interface {
	Add(book *entities.Book) error
	ListAll() ([]entities.Book, error)
	FindByID(id uint) (*entities.Book, error)
	Search(query string) ([]entities.Book, error)
	Update(id uint, fields books.Fields) (*entities.Book, error)
	Delete(id uint) error
}

// ActivityRecorder is told about every committed change.
type ActivityRecorder interface {
	BookCreated(book *entities.Book) error
	BookUpdated(before, after *entities.Book) error
	BookDeleted(book *entities.Book) error
}

// NewBookInput is the raw form of a book as submitted by a user.
type NewBookInput struct {
	Title  string
	Author string
	Rating string
}

// EditBookInput is the raw form of an edit. An empty Title keeps the current title.
type EditBookInput struct {
	Title  string
	Rating string
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Service struct {
	store    BookStore
	recorder ActivityRecorder
}

// NewService creates a catalog service. recorder may be nil.
func NewService(store BookStore, recorder ActivityRecorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// CreateBook validates the input and stores a new book.
func (s *Service) CreateBook(input NewBookInput) (*entities.Book, error) {
	title, err := requireText("title", input.Title)
	if err != nil {
		return nil, err
	}
	author, err := requireText("author", input.Author)
	if err != nil {
		return nil, err
	}
	rating, err := ParseRating(input.Rating)
	if err != nil {
		return nil, err
	}

	book := &entities.Book{Title: title, Author: author, Rating: rating}
	if err := s.store.Add(book); err != nil {
		return nil, err
	}

	s.recordCreated(book)
	return book, nil
}

// AllBooks returns the whole catalog in display order.
func (s *Service) AllBooks() ([]entities.Book, error) {
	return s.store.ListAll()
}

// SearchBooks matches title or author; an empty query returns everything.
func (s *Service) SearchBooks(query string) ([]entities.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.store.ListAll()
	}
	return s.store.Search(query)
}

// GetBook loads one book.
func (s *Service) GetBook(id uint) (*entities.Book, error) {
	return s.store.FindByID(id)
}

// SetRating parses the submitted rating and stores it on the book.
func (s *Service) SetRating(id uint, rating string) (*entities.Book, error) {
	value, err := ParseRating(rating)
	if err != nil {
		return nil, err
	}
	return s.update(id, books.Fields{Rating: &value})
}

// RenameBook changes a book's title.
func (s *Service) RenameBook(id uint, title string) (*entities.Book, error) {
	value, err := requireText("title", title)
	if err != nil {
		return nil, err
	}
	return s.update(id, books.Fields{Title: &value})
}

// UpdateBook applies an edit form in one commit. Both values are validated
// before anything is written.
func (s *Service) UpdateBook(id uint, input EditBookInput) (*entities.Book, error) {
	rating, err := ParseRating(input.Rating)
	if err != nil {
		return nil, err
	}
	fields := books.Fields{Rating: &rating}

	if strings.TrimSpace(input.Title) != "" {
		title, err := requireText("title", input.Title)
		if err != nil {
			return nil, err
		}
		fields.Title = &title
	}
	return s.update(id, fields)
}

// RemoveBook deletes a book and returns what was removed.
func (s *Service) RemoveBook(id uint) (*entities.Book, error) {
	book, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(id); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.BookDeleted(book); err != nil {
			log.Printf("Failed to record deletion of book %d: %v", book.ID, err)
		}
	}
	return book, nil
}

// ImportBooks adds books from an external source. Titles already in the
// catalog are skipped; invalid entries are counted as failed.
func (s *Service) ImportBooks(entries []entities.Book) ImportResult {
	var result ImportResult
	for _, entry := range entries {
		if err := validateBook(entry); err != nil {
			log.Printf("Skipping invalid book %q: %v", entry.Title, err)
			result.Failed++
			continue
		}

		book := &entities.Book{
			Title:  strings.TrimSpace(entry.Title),
			Author: strings.TrimSpace(entry.Author),
			Rating: entry.Rating,
		}
		err := s.store.Add(book)
		switch {
		case err == nil:
			result.Created++
			s.recordCreated(book)
		case errors.Is(err, ErrDuplicateTitle):
			result.Skipped++
		default:
			log.Printf("Failed to import book %q: %v", entry.Title, err)
			result.Failed++
		}
	}
	return result
}

func (s *Service) update(id uint, fields books.Fields) (*entities.Book, error) {
	before, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	after, err := s.store.Update(id, fields)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		if err := s.recorder.BookUpdated(before, after); err != nil {
			log.Printf("Failed to record update of book %d: %v", after.ID, err)
		}
	}
	return after, nil
}

func (s *Service) recordCreated(book *entities.Book) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.BookCreated(book); err != nil {
		log.Printf("Failed to record creation of book %d: %v", book.ID, err)
	}
}

// ParseRating converts a submitted rating to a finite number.
func ParseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("rating", "rating is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, invalid("rating", fmt.Sprintf("%q is not a number", raw))
	}
	return value, nil
}

func requireText(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", invalid(field, field+" is required")
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return "", invalid(field, fmt.Sprintf("%s must be at most %d characters", field, MaxFieldLength))
	}
	return value, nil
}

func validateBook(book entities.Book) error {
	if _, err := requireText("title", book.Title); err != nil {
		return err
	}
	if _, err := requireText("author", book.Author); err != nil {
		return err
	}
	if math.IsNaN(book.Rating) || math.IsInf(book.Rating, 0) {
		return invalid("rating", "rating must be a finite number")
	}
	return nil
}
