// Command generate_demo creates a demo catalog of public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/activity"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	activityrepo "github.com/mrlokans/bookshelf/internal/database/activity"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	service := catalog.NewService(
		books.NewRepository(db.DB),
		activity.NewService(activityrepo.NewRepository(db.DB)),
	)

	result := service.ImportBooks(publicDomainBooks())
	log.Printf("Created %d books (%d skipped, %d failed)", result.Created, result.Skipped, result.Failed)

	if result.Failed > 0 {
		log.Fatalf("Demo database is incomplete")
	}
	log.Println("Demo database generated successfully!")
}

func publicDomainBooks() []entities.Book {
	return []entities.Book{
		{Title: "Meditations", Author: "Marcus Aurelius", Rating: 9.5},
		{Title: "Letters from a Stoic", Author: "Seneca", Rating: 8.5},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Rating: 9},
		{Title: "Emma", Author: "Jane Austen", Rating: 7.5},
		{Title: "Moby-Dick", Author: "Herman Melville", Rating: 7},
		{Title: "Frankenstein", Author: "Mary Shelley", Rating: 8},
		{Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle", Rating: 8.5},
		{Title: "Great Expectations", Author: "Charles Dickens", Rating: 8},
		{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Rating: 9.3},
		{Title: "The Odyssey", Author: "Homer", Rating: 8.8},
		{Title: "On the Origin of Species", Author: "Charles Darwin", Rating: 7.8},
		{Title: "Walden", Author: "Henry David Thoreau", Rating: 6.5},
	}
}
