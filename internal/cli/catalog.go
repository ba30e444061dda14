package cli

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/activity"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	activityrepo "github.com/mrlokans/bookshelf/internal/database/activity"
	"github.com/mrlokans/bookshelf/internal/database/books"
)

// openCatalog opens an existing catalog file with activity recording enabled.
// The caller closes the returned database.
func openCatalog(dbPath string) (*database.Database, *catalog.Service, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("database not found: %s (run 'migrate' first)", dbPath)
	}

	db, err := database.NewDatabase(dbPath, database.WithLogLevel(database.ParseLogLevel("silent")))
	if err != nil {
		return nil, nil, err
	}

	recorder := activity.NewService(activityrepo.NewRepository(db.DB))
	return db, catalog.NewService(books.NewRepository(db.DB), recorder), nil
}
