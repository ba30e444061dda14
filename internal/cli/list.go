package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mrlokans/bookshelf/internal/config"
)

// ListCommand prints the catalog as a table.
type ListCommand struct {
	DatabasePath string
	Query        string
	Out          io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{Out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.Query, "q", "", "Only show books whose title or author contains this text")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the books in the catalog.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list -q tolkien\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ListCommand) Run() error {
	db, service, err := openCatalog(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	books, err := service.SearchBooks(cmd.Query)
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}

	if len(books) == 0 {
		if cmd.Query != "" {
			muted(cmd.Out, fmt.Sprintf("No books match %q", cmd.Query))
		} else {
			muted(cmd.Out, "Library is empty.")
		}
		return nil
	}

	rows := make([][]string, 0, len(books))
	for _, book := range books {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(book.ID), 10),
			book.Title,
			book.Author,
			strconv.FormatFloat(book.Rating, 'g', -1, 64),
		})
	}

	fmt.Fprintln(cmd.Out, bookTable(rows))
	muted(cmd.Out, fmt.Sprintf("%d book(s)", len(books)))
	return nil
}
