// Package repositories defines the repository interfaces for the application
// document. They abstract the persistence details so the core application
// stays decoupled from files and databases.
package repositories

import (
	"context"
	"errors"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

// ErrDocumentNotFound is returned by Load when nothing has been stored yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository persists the whole application document. Save replaces
// the stored document wholesale; the last writer wins.
type DocumentRepository interface {
	Load(ctx context.Context) (*content.Document, error)
	Save(ctx context.Context, doc *content.Document) error
}

// DocumentWatcher is implemented by repositories that can report external
// edits to the stored document.
type DocumentWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}
