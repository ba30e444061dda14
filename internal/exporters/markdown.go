package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// MarkdownExporter writes the catalog as a single markdown document.
type MarkdownExporter struct {
	Path string
	now  func() time.Time
}

func NewMarkdownExporter(path string) *MarkdownExporter {
	return &MarkdownExporter{Path: path, now: time.Now}
}

func (exporter *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	if dir := filepath.Dir(exporter.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	content := GenerateMarkdown(books, exporter.now())
	if err := os.WriteFile(exporter.Path, []byte(content), 0644); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{BooksProcessed: len(books), Path: exporter.Path}, nil
}

// GenerateMarkdown renders books as a markdown table with frontmatter.
func GenerateMarkdown(books []entities.Book, generatedAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: book_catalog\n")
	fmt.Fprintf(&builder, "created_at: %s\n", generatedAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "books: %d\n", len(books))
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# Library\n\n")

	if len(books) == 0 {
		fmt.Fprintf(&builder, "Library is empty.\n")
		return builder.String()
	}

	fmt.Fprintf(&builder, "| # | Title | Author | Rating |\n")
	fmt.Fprintf(&builder, "|---|-------|--------|--------|\n")
	for i, book := range books {
		fmt.Fprintf(&builder, "| %d | %s | %s | %s |\n",
			i+1, escapeCell(book.Title), escapeCell(book.Author),
			strconv.FormatFloat(book.Rating, 'g', -1, 64))
	}
	return builder.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
