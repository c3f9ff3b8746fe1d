// Package services provides application-level orchestration services
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
)

// Command is one whole-document mutation. Apply receives a private copy of
// the current document; returning an error discards the copy.
type Command interface {
	Name() string
	Apply(doc *content.Document) error
}

// pageScoped is implemented by commands that only touch one page, so editor
// clients of other pages can ignore the change.
type pageScoped interface {
	PageScope() string
}

// DocumentService owns the in-memory document. Readers get an immutable
// snapshot; writers go through Execute, one at a time.
type DocumentService struct {
	repo      repositories.DocumentRepository
	publisher messaging.Publisher
	logger    *logging.ChanneledLogger
	metrics   *metrics.Registry

	mu       sync.RWMutex
	doc      *content.Document
	revision uint64

	// writeMu serializes Execute and Reload.
	writeMu sync.Mutex
}

// NewDocumentService creates a document service. publisher may be nil.
func NewDocumentService(repo repositories.DocumentRepository, publisher messaging.Publisher, logger *logging.ChanneledLogger) *DocumentService {
	return &DocumentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics.Get(),
		doc:       content.NewDocument(),
	}
}

// Load reads the stored document. When nothing is stored, or the stored
// document has no users, the default user is seeded and the result saved.
func (s *DocumentService) Load(ctx context.Context) error {
	start := time.Now()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.repo.Load(ctx)
	seed := false
	switch {
	case errors.Is(err, repositories.ErrDocumentNotFound):
		s.logger.Content().Info("No stored document found, starting empty")
		doc = content.NewDocument()
		seed = true
	case err != nil:
		return fmt.Errorf("failed to load document: %w", err)
	}
	doc.Normalize()

	if len(doc.Users) == 0 {
		doc.Users = append(doc.Users, content.DefaultUser())
		seed = true
	}
	if seed {
		if err := s.repo.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save seeded document: %w", err)
		}
	}

	s.mu.Lock()
	s.doc = doc
	s.revision++
	s.mu.Unlock()

	s.logger.Content().Info("Document loaded",
		"apis", len(doc.APIs), "pages", len(doc.Pages), "users", len(doc.Users), "duration", time.Since(start))
	return nil
}

// Document returns the current snapshot. Callers must not modify it.
func (s *DocumentService) Document() *content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Revision increases with every applied change.
func (s *DocumentService) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Execute applies cmd to a copy of the document, persists the copy and
// swaps it in. On any error the current document is left as it was.
func (s *DocumentService) Execute(ctx context.Context, cmd Command) error {
	start := time.Now()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Document().Clone()
	if err := cmd.Apply(next); err != nil {
		s.recordCommand(cmd, err)
		s.logger.Content().Warn("Document command rejected", "command", cmd.Name(), "error", err)
		return err
	}
	next.Normalize()

	if err := s.repo.Save(ctx, next); err != nil {
		err = fmt.Errorf("failed to persist document after %s: %w", cmd.Name(), err)
		s.recordCommand(cmd, err)
		s.logger.LogError(logging.ChannelContent, cmd.Name(), err, nil)
		return err
	}

	s.mu.Lock()
	s.doc = next
	s.revision++
	revision := s.revision
	s.mu.Unlock()

	s.recordCommand(cmd, nil)

	event := messaging.EditorEvent{Type: messaging.EventDocumentChanged, Revision: revision}
	if scoped, ok := cmd.(pageScoped); ok && scoped.PageScope() != "" {
		event.Type = messaging.EventPageChanged
		event.PageID = scoped.PageScope()
	}
	s.publish(event)

	s.logger.Content().Info("Document command applied",
		"command", cmd.Name(), "revision", revision, "duration", time.Since(start))
	return nil
}

// Reload re-reads the stored document and swaps it in when it differs from
// the current one. It reports whether anything changed.
func (s *DocumentService) Reload(ctx context.Context) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reload document: %w", err)
	}
	doc.Normalize()

	same, err := sameDocument(s.Document(), doc)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	s.mu.Lock()
	s.doc = doc
	s.revision++
	revision := s.revision
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DocumentReloads.Inc()
	}
	s.publish(messaging.EditorEvent{Type: messaging.EventDocumentReload, Revision: revision})
	s.logger.Content().Info("Document reloaded from storage", "revision", revision)
	return true, nil
}

func sameDocument(a, b *content.Document) (bool, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("failed to encode current document: %w", err)
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to encode reloaded document: %w", err)
	}
	return bytes.Equal(left, right), nil
}

func (s *DocumentService) publish(event messaging.EditorEvent) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

func (s *DocumentService) recordCommand(cmd Command, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.DocumentCommands.WithLabelValues(cmd.Name(), metrics.Outcome(err)).Inc()
}
