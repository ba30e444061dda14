package catalog

import (
	"fmt"

	"github.com/mrlokans/bookshelf/internal/database/books"
)

var (
	ErrNotFound       = books.ErrNotFound
	ErrDuplicateTitle = books.ErrDuplicateTitle
)

// ValidationError reports a submitted value the catalog refuses to store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
