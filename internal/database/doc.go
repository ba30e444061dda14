// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and schema migration
//	├── books/           # Book CRUD operations
//	└── activity/        # Activity log of committed catalog changes
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./database/books.db")
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.FindByID(1)
//
// # Lifecycle
//
// Open connects without touching the schema. Migrate creates missing tables and is
// safe to run on every start. NewDatabase does both and is what the server uses;
// the migrate CLI command runs Migrate on its own.
package database
