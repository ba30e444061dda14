package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
)

// MigrateCommand creates the catalog file and its tables.
type MigrateCommand struct {
	DatabasePath string
	Out          io.Writer
}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{Out: os.Stdout}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the catalog database and bring its tables up to date.\n")
		fmt.Fprintf(os.Stderr, "Running it against an existing database is safe.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	db, err := database.Open(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	ok(cmd.Out, fmt.Sprintf("Database ready at %s", cmd.DatabasePath))
	return nil
}
