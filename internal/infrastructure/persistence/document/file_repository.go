// Package document implements the document repositories: a JSON file and a
// single-row SQL table (SQLite or Turso).
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

const watchDebounce = 150 * time.Millisecond

// FileRepository stores the document as indented JSON in one file. Writes go
// to a temp file in the same directory and are renamed into place.
type FileRepository struct {
	path   string
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// NewFileRepository creates a repository for the JSON file at path.
func NewFileRepository(path string, logger *logging.ChanneledLogger) *FileRepository {
	return &FileRepository{path: path, logger: logger}
}

// Path is the backing file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and decodes the document. A missing file yields
// repositories.ErrDocumentNotFound.
func (r *FileRepository) Load(ctx context.Context) (*content.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repositories.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	doc := content.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	doc.Normalize()

	r.logger.Storage().Debug("Loaded document from file", "path", r.path, "bytes", len(data), "duration", time.Since(start))
	return doc, nil
}

// Save writes the whole document atomically.
func (r *FileRepository) Save(ctx context.Context, doc *content.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}

	r.logger.Storage().Info("Saved document to file", "path", r.path, "bytes", len(data), "duration", time.Since(start))
	return nil
}

// Watch calls onChange after the file is written, created or replaced by
// another process (or by Save). Bursts of events are coalesced. It blocks
// until ctx is done.
func (r *FileRepository) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic renames replace the inode of the file itself.
	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(r.path)

	r.logger.Storage().Info("Watching data file", "path", r.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Storage().Debug("Data file watcher stopping", "path", r.path)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Storage().Warn("Data file watcher error", "path", r.path, "error", err)
		}
	}
}

var (
	_ repositories.DocumentRepository = (*FileRepository)(nil)
	_ repositories.DocumentWatcher    = (*FileRepository)(nil)
)
