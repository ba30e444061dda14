// Package exporters writes the catalog out of the database: timestamped JSON
// snapshots that can be imported again, and a human-readable markdown list.
package exporters

import "github.com/mrlokans/bookshelf/internal/entities"

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed int    `json:"books_processed"`
	Path           string `json:"path"`
}
