package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/exporters"
)

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ExportCommand writes the catalog to a snapshot or a markdown file.
type ExportCommand struct {
	DatabasePath string
	Dir          string
	Format       string
	Keep         int
	Out          io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.Dir, "dir", config.DefaultSnapshotDir, "Directory to write the export into")
	fs.StringVar(&cmd.Format, "format", FormatJSON, "Export format: json or markdown")
	fs.IntVar(&cmd.Keep, "keep", 0, "Keep only the newest N json snapshots in -dir (0 keeps all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the whole catalog.\n\n")
		fmt.Fprintf(os.Stderr, "json writes a timestamped snapshot that 'import' can read back.\n")
		fmt.Fprintf(os.Stderr, "markdown writes books.md with one table row per book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Format != FormatJSON && cmd.Format != FormatMarkdown {
		return fmt.Errorf("unknown format %q (want %s or %s)", cmd.Format, FormatJSON, FormatMarkdown)
	}
	return nil
}

func (cmd *ExportCommand) exporter() exporters.BookExporter {
	if cmd.Format == FormatMarkdown {
		return exporters.NewMarkdownExporter(filepath.Join(cmd.Dir, "books.md"))
	}
	return exporters.NewSnapshotExporter(cmd.Dir, cmd.Keep)
}

func (cmd *ExportCommand) Run() error {
	db, service, err := openCatalog(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	books, err := service.AllBooks()
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	result, err := cmd.exporter().Export(books)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	ok(cmd.Out, fmt.Sprintf("Exported %d book(s) to %s", result.BooksProcessed, result.Path))
	return nil
}
