// Package activity records who-did-what history for the catalog.
package activity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/bookshelf/internal/database/activity"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Service provides high-level activity logging.
type Service struct {
	repo *activity.Repository
}

// NewService creates a new activity service.
func NewService(repo *activity.Repository) *Service {
	return &Service{repo: repo}
}

// BookCreated records an added book.
func (s *Service) BookCreated(book *entities.Book) error {
	return s.repo.LogEvent(&entities.ActivityEvent{
		Action:      entities.ActivityBookCreated,
		BookID:      book.ID,
		BookTitle:   book.Title,
		Description: truncate(fmt.Sprintf("Added %q by %s (%s)", book.Title, book.Author, formatRating(book.Rating)), 500),
	})
}

// BookUpdated records the fields that differ between before and after.
func (s *Service) BookUpdated(before, after *entities.Book) error {
	var changes []string
	if before.Title != after.Title {
		changes = append(changes, fmt.Sprintf("title %q -> %q", before.Title, after.Title))
	}
	if before.Author != after.Author {
		changes = append(changes, fmt.Sprintf("author %q -> %q", before.Author, after.Author))
	}
	if before.Rating != after.Rating {
		changes = append(changes, fmt.Sprintf("rating %s -> %s", formatRating(before.Rating), formatRating(after.Rating)))
	}
	if len(changes) == 0 {
		changes = append(changes, "no changes")
	}

	return s.repo.LogEvent(&entities.ActivityEvent{
		Action:      entities.ActivityBookUpdated,
		BookID:      after.ID,
		BookTitle:   after.Title,
		Description: truncate(fmt.Sprintf("Updated %q: %s", before.Title, strings.Join(changes, ", ")), 500),
	})
}

// BookDeleted records a removed book.
func (s *Service) BookDeleted(book *entities.Book) error {
	return s.repo.LogEvent(&entities.ActivityEvent{
		Action:      entities.ActivityBookDeleted,
		BookID:      book.ID,
		BookTitle:   book.Title,
		Description: truncate(fmt.Sprintf("Deleted %q by %s", book.Title, book.Author), 500),
	})
}

// Recent returns the newest events first.
func (s *Service) Recent(limit int) ([]entities.ActivityEvent, error) {
	return s.repo.GetRecent(limit)
}

// History returns all events for one book, oldest first.
func (s *Service) History(bookID uint) ([]entities.ActivityEvent, error) {
	return s.repo.GetForBook(bookID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func formatRating(r float64) string {
	return fmt.Sprintf("%g", r)
}

// truncate shortens a string to max length.
// truncate shortens s to at most maxLen runes, ending in "...".
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
