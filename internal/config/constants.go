package config

const (
	// DefaultDatabasePath is where the catalog file lives unless DATABASE_PATH is set.
	DefaultDatabasePath = "./database/new-books-collection.db"

	// DefaultSnapshotDir holds JSON catalog snapshots.
	DefaultSnapshotDir = "./snapshots"
)
