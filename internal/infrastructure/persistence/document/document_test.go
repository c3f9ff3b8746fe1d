package document

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/persistence/database"
)

func sampleDocument() *content.Document {
	doc := content.NewDocument()
	doc.APIs = append(doc.APIs, content.ApiDefinition{ID: "A1", Name: "Orders", URL: "https://x/orders/:id", Method: content.MethodGet})
	doc.Pages = append(doc.Pages, content.PageDefinition{
		ID:   "p1",
		Slug: "orders/:id",
		Name: "Order",
		Components: []content.ComponentNode{
			{ID: "c1", Type: content.ComponentDetail, ApiID: "A1", Props: map[string]any{"displayMode": "all"}},
		},
	})
	doc.Users = append(doc.Users, content.DefaultUser())
	return doc
}

func TestFileRepositoryMissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "data.json"), logging.NewDiscardLogger())
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")
	repo := NewFileRepository(path, logging.NewDiscardLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleDocument()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Pages, 1)
	assert.Equal(t, "orders/:id", loaded.Pages[0].Slug)
	assert.Equal(t, content.ComponentDetail, loaded.Pages[0].Components[0].Type)
	assert.Equal(t, content.DefaultAppTitle, loaded.Settings.AppTitle)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestFileRepositoryNormalizesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pages":[{"id":"p","slug":"a"}]}`), 0644))

	doc, err := NewFileRepository(path, logging.NewDiscardLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.APIs)
	assert.NotNil(t, doc.Pages[0].Components)
	assert.Equal(t, content.ThemeLight, doc.Settings.Theme)
}

func TestFileRepositoryRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := NewFileRepository(path, logging.NewDiscardLogger()).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrDocumentNotFound)
}

func TestFileRepositoryWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileRepository(path, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() { done <- repo.Watch(ctx, func() { calls.Add(1) }) }()

	// Give the watcher time to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestSQLRepositoryRoundTrip(t *testing.T) {
	logger := logging.NewDiscardLogger()
	db, err := database.Open(database.Settings{SQLitePath: filepath.Join(t.TempDir(), "admini.db")}, logger)
	require.NoError(t, err)
	defer db.Close()

	repo, err := NewSQLRepository(db.DB, logger)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)

	doc := sampleDocument()
	require.NoError(t, repo.Save(ctx, doc))

	doc.Settings.AppTitle = "Back office"
	require.NoError(t, repo.Save(ctx, doc), "second save updates the same row")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Back office", loaded.Settings.AppTitle)
	assert.Len(t, loaded.APIs, 1)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
