package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/exporters"
)

// BookLister returns the whole catalog.
type BookLister interface {
	AllBooks() ([]entities.Book, error)
}

// SnapshotCatalogTask writes a JSON snapshot of the catalog.
type SnapshotCatalogTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for snapshot tasks.
func (t SnapshotCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "snapshot_catalog",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SnapshotCatalogProcessor creates a processor function for SnapshotCatalogTask.
func SnapshotCatalogProcessor(books BookLister, exporter exporters.BookExporter) backlite.QueueProcessor[SnapshotCatalogTask] {
	return func(ctx context.Context, task SnapshotCatalogTask) error {
		if books == nil || exporter == nil {
			return fmt.Errorf("snapshot exporter not configured")
		}

		all, err := books.AllBooks()
		if err != nil {
			return fmt.Errorf("snapshot catalog: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := exporter.Export(all)
		if err != nil {
			return fmt.Errorf("snapshot catalog: %w", err)
		}

		log.Printf("[TASK] Saved snapshot of %d books to %s (%s)", result.BooksProcessed, result.Path, reasonOrDefault(task.Reason))
		return nil
	}
}

// NewSnapshotCatalogQueue creates a backlite queue for snapshot tasks.
func NewSnapshotCatalogQueue(books BookLister, exporter exporters.BookExporter) backlite.Queue {
	return backlite.NewQueue(SnapshotCatalogProcessor(books, exporter))
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "manual"
	}
	return reason
}
