package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/outbound"
)

// memoryRepo keeps the document in memory.
type memoryRepo struct {
	mu    sync.Mutex
	doc   *content.Document
	saves int
	err   error
}

func (r *memoryRepo) Load(ctx context.Context) (*content.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil, repositories.ErrDocumentNotFound
	}
	return r.doc.Clone(), nil
}

func (r *memoryRepo) Save(ctx context.Context, doc *content.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.doc = doc.Clone()
	r.saves++
	return nil
}

// fakeExecutor answers by URL and records every request.
type fakeExecutor struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]int
	requests  []domainsvc.BoundRequest
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: map[string]string{}, failures: map[string]int{}}
}

func (f *fakeExecutor) Do(ctx context.Context, req domainsvc.BoundRequest) (*outbound.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if status, ok := f.failures[req.URL]; ok {
		return nil, &outbound.ResponseError{StatusCode: status}
	}
	body, ok := f.responses[req.URL]
	if !ok {
		body = "{}"
	}
	return &outbound.Response{StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeExecutor) requestsTo(prefix string) []domainsvc.BoundRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainsvc.BoundRequest
	for _, r := range f.requests {
		if strings.HasPrefix(r.URL, prefix) {
			out = append(out, r)
		}
	}
	return out
}

type fixture struct {
	repo      *memoryRepo
	executor  *fakeExecutor
	documents *DocumentService
	bindings  *BindingService
	sessions  *SessionService
	auth      *AuthService
	render    *RenderService
	actions   *ActionService
}

func newFixture(t *testing.T, doc *content.Document) *fixture {
	t.Helper()
	logger := logging.NewDiscardLogger()
	f := &fixture{repo: &memoryRepo{doc: doc}, executor: newFakeExecutor()}
	f.documents = NewDocumentService(f.repo, nil, logger)
	require.NoError(t, f.documents.Load(context.Background()))

	f.bindings = NewBindingService(f.executor, logger)
	f.sessions = NewSessionService(stores.NewTokensStore(time.Minute, logger), f.bindings, logger)
	f.auth = NewAuthService(AuthConfig{
		AdminUsername: "admini",
		AdminPassword: "admini",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
	}, logger)
	f.render = NewRenderService(f.documents, f.bindings, f.sessions, f.auth, RenderConfig{StatusWindow: 3 * time.Second}, logger)
	f.actions = NewActionService(f.documents, f.sessions, f.executor, 3*time.Second, logger)
	return f
}

// sampleDocument has an auth API, an orders list and an order detail page.
func sampleDocument() *content.Document {
	doc := content.NewDocument()
	doc.APIs = []content.ApiDefinition{
		{ID: "login", Name: "Login", URL: "https://x/login", Method: content.MethodPost, Body: `{"user":"svc"}`, IsAuth: true, TokenPath: "data.token"},
		{ID: "orders", Name: "Orders", URL: "https://x/orders", Method: content.MethodGet},
		{ID: "order", Name: "Order", URL: "https://x/orders/:id", Method: content.MethodGet},
		{ID: "approve", Name: "Approve", URL: "https://x/orders/:id/approve", Method: content.MethodPost},
		{ID: "create", Name: "Create", URL: "https://x/orders", Method: content.MethodPost, Body: `{"title":"","qty":0}`},
	}
	doc.Pages = []content.PageDefinition{
		{ID: "list", Name: "Orders", Slug: "orders", Components: []content.ComponentNode{
			{ID: "t1", Type: content.ComponentTable, ApiID: "orders", Label: "All orders", Props: map[string]any{
				"rowActions": []any{map[string]any{"id": "a1", "label": "Approve", "action": "api", "apiId": "approve"}},
			}},
			{ID: "b1", Type: content.ComponentButton, ApiID: "approve", Label: "Approve all", Props: map[string]any{"action": "api"}},
			{ID: "f1", Type: content.ComponentForm, ApiID: "create", Label: "New order", Props: map[string]any{}},
		}},
		{ID: "detail", Name: "Order", Slug: "orders/:id", Components: []content.ComponentNode{
			{ID: "d1", Type: content.ComponentDetail, ApiID: "order", Props: map[string]any{}},
			{ID: "x1", Type: content.ComponentTable, ApiID: "missing", Props: map[string]any{}},
		}},
	}
	return doc
}
