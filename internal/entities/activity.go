package entities

import "time"

type ActivityAction string

const (
	ActivityBookCreated ActivityAction = "book_created"
	ActivityBookUpdated ActivityAction = "book_updated"
	ActivityBookDeleted ActivityAction = "book_deleted"
)

// ActivityEvent records one committed change to the catalog.
type ActivityEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Action      ActivityAction `gorm:"index;size:50" json:"action"`
	BookID      uint           `gorm:"index" json:"book_id"`
	BookTitle   string         `gorm:"size:250" json:"book_title"`
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}
