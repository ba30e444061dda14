package activity

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an activity event to the database.
func (r *Repository) LogEvent(event *entities.ActivityEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetRecent returns the newest events first.
func (r *Repository) GetRecent(limit int) ([]entities.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	events := []entities.ActivityEvent{}
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	return events, err
}

// GetForBook returns the history of a single book, oldest first.
func (r *Repository) GetForBook(bookID uint) ([]entities.ActivityEvent, error) {
	events := []entities.ActivityEvent{}
	err := r.db.Where("book_id = ?", bookID).Order("created_at ASC, id ASC").Find(&events).Error
	return events, err
}

// DeleteOldEvents removes events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.ActivityEvent{})
	return result.RowsAffected, result.Error
}
