package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/persistence/database"
)

const documentRowID = "main"

// SQLRepository stores the document as JSON in a single row of the
// documents table.
type SQLRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

// NewSQLRepository creates the schema if needed and returns the repository.
func NewSQLRepository(db *sql.DB, logger *logging.ChanneledLogger) (*SQLRepository, error) {
	if err := database.NewTableCreator().CreateSchema(db); err != nil {
		return nil, err
	}
	return &SQLRepository{db: db, logger: logger}, nil
}

// Load reads the stored document. An empty table yields
// repositories.ErrDocumentNotFound.
func (r *SQLRepository) Load(ctx context.Context) (*content.Document, error) {
	start := time.Now()

	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, documentRowID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc := content.NewDocument()
	if err := json.Unmarshal([]byte(body), doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	doc.Normalize()

	r.logger.Storage().Debug("Loaded document from database", "bytes", len(body), "duration", time.Since(start))
	return doc, nil
}

// Save upserts the whole document.
func (r *SQLRepository) Save(ctx context.Context, doc *content.Document) error {
	start := time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, documentRowID, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	r.logger.Storage().Info("Saved document to database", "bytes", len(data), "duration", time.Since(start))
	return nil
}

var _ repositories.DocumentRepository = (*SQLRepository)(nil)
