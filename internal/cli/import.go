package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/exporters"
)

// ImportCommand loads books from a JSON snapshot into the catalog.
type ImportCommand struct {
	File         string
	DatabasePath string
	Out          io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to a JSON snapshot written by 'export' (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add the books from a snapshot to the catalog.\n")
		fmt.Fprintf(os.Stderr, "Books whose title is already in the catalog are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	snapshot, err := exporters.LoadSnapshot(cmd.File)
	if err != nil {
		return err
	}

	heading(cmd.Out, "Import")
	muted(cmd.Out, fmt.Sprintf("Snapshot from %s with %d book(s)", snapshot.CreatedAt.Format("2006-01-02 15:04"), len(snapshot.Books)))

	db, service, err := openCatalog(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	result := service.ImportBooks(snapshot.Books)

	ok(cmd.Out, fmt.Sprintf("Created %d, skipped %d, failed %d", result.Created, result.Skipped, result.Failed))
	if result.Failed > 0 {
		return fmt.Errorf("%d book(s) could not be imported", result.Failed)
	}
	return nil
}
