package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestNewDatabase_CreatesFileAndSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "books.db")

	db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")
	assert.Equal(t, dbPath, db.Path())

	migrator := db.DB.Migrator()
	assert.True(t, migrator.HasTable("books"))
	assert.True(t, migrator.HasTable("activity_events"))
	for _, column := range []string{"id", "title", "author", "rating"} {
		assert.True(t, migrator.HasColumn(&entities.Book{}, column), "missing column %s", column)
	}
	assert.True(t, migrator.HasIndex(&entities.Book{}, "Title"))
}

func TestNewDatabase_IsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Book{Title: "Dune", Author: "Frank Herbert", Rating: 8.5}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "reopening must not drop existing rows")
}

func TestOpen_DoesNotMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := Open(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, db.DB.Migrator().HasTable("books"))
	require.NoError(t, db.Migrate())
	assert.True(t, db.DB.Migrator().HasTable("books"))
}

func TestDatabase_Ping(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "books.db"), WithLogLevel(logger.Silent))
	require.NoError(t, err)

	assert.NoError(t, db.Ping())
	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Error, ParseLogLevel("ERROR"))
	assert.Equal(t, logger.Info, ParseLogLevel(" info "))
	assert.Equal(t, logger.Warn, ParseLogLevel("warn"))
	assert.Equal(t, logger.Warn, ParseLogLevel("bogus"))
}
