package exporters

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

const (
	snapshotPrefix = "books-"
	snapshotExt    = ".json"

	// Fixed width, so names sort in creation order.
	snapshotTimeLayout = "20060102T150405.000000000Z"
)

// Snapshot is a complete copy of the catalog at one point in time.
type Snapshot struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Count     int             `json:"count"`
	Books     []entities.Book `json:"books"`
}

// SnapshotExporter writes snapshots into Dir and keeps the newest Keep files.
// Keep <= 0 disables pruning.
type SnapshotExporter struct {
	Dir  string
	Keep int
	now  func() time.Time
}

func NewSnapshotExporter(dir string, keep int) *SnapshotExporter {
	return &SnapshotExporter{Dir: dir, Keep: keep, now: time.Now}
}

// Export writes one snapshot file and prunes old ones.
func (e *SnapshotExporter) Export(books []entities.Book) (ExportResult, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	createdAt := e.now().UTC()
	name := fmt.Sprintf("%s%s-%s%s", snapshotPrefix, createdAt.Format(snapshotTimeLayout), uuid.NewString()[:8], snapshotExt)
	path := filepath.Join(e.Dir, name)

	// Snapshots are renamed into place once fully written.
	tmp, err := os.CreateTemp(e.Dir, ".snapshot-*")
	if err != nil {
		return ExportResult{}, err
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, books, createdAt); err != nil {
		tmp.Close()
		return ExportResult{}, err
	}
	if err := tmp.Close(); err != nil {
		return ExportResult{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ExportResult{}, err
	}

	if e.Keep > 0 {
		if removed, err := e.Prune(e.Keep); err != nil {
			log.Printf("Failed to prune snapshots in %s: %v", e.Dir, err)
		} else if removed > 0 {
			log.Printf("Pruned %d old snapshot(s)", removed)
		}
	}

	return ExportResult{BooksProcessed: len(books), Path: path}, nil
}

// List returns snapshot paths, newest first.
func (e *SnapshotExporter) List() ([]string, error) {
	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type snapshotFile struct {
		path    string
		modTime time.Time
	}
	var files []snapshotFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, snapshotFile{path: filepath.Join(e.Dir, name), modTime: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].path > files[j].path
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// Prune deletes all but the newest keep snapshots and returns how many it removed.
func (e *SnapshotExporter) Prune(keep int) (int, error) {
	paths, err := e.List()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	removed := 0
	for i := keep; i < len(paths); i++ {
		if err := os.Remove(paths[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// WriteSnapshot encodes books as an indented JSON snapshot.
func WriteSnapshot(w io.Writer, books []entities.Book, createdAt time.Time) error {
	if books == nil {
		books = []entities.Book{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: createdAt,
		Count:     len(books),
		Books:     books,
	})
}

// ReadSnapshot decodes a snapshot and checks its version.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
