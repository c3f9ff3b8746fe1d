package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/outbound"
)

const defaultFetchConcurrency = 8

// BindingService binds API definitions to route params and fetches the
// responses that data-bound components render.
type BindingService struct {
	executor    outbound.Executor
	logger      *logging.ChanneledLogger
	concurrency int
}

// NewBindingService creates a binding service on top of an outbound executor.
func NewBindingService(executor outbound.Executor, logger *logging.ChanneledLogger) *BindingService {
	return &BindingService{
		executor:    executor,
		logger:      logger,
		concurrency: defaultFetchConcurrency,
	}
}

// AcquireAuthToken calls the first isAuth API and walks its response by
// tokenPath. Any failure yields "" and the page renders without a token.
func (b *BindingService) AcquireAuthToken(ctx context.Context, apis []content.ApiDefinition, params *rendering.ParameterMap) string {
	api, ok := content.AuthAPI(apis)
	if !ok {
		return ""
	}
	start := time.Now()
	resp, err := b.executor.Do(ctx, domainsvc.BuildRequest(*api, params, ""))
	if err != nil {
		b.logger.Outbound().Warn("Auth token request failed", "apiId", api.ID, "error", err)
		return ""
	}
	data, err := domainsvc.DecodeJSON(resp.Body)
	if err != nil {
		b.logger.Outbound().Warn("Auth token response is not JSON", "apiId", api.ID, "error", err)
		return ""
	}
	token, ok := domainsvc.ExtractToken(data, api.TokenPath)
	if !ok {
		b.logger.Outbound().Warn("Auth token not found in response", "apiId", api.ID, "tokenPath", api.TokenPath)
		return ""
	}
	b.logger.Auth().Debug("Acquired auth token", "apiId", api.ID, "duration", time.Since(start))
	return token
}

// Fetch sends the bound request of api and decodes the response.
func (b *BindingService) Fetch(ctx context.Context, api content.ApiDefinition, params *rendering.ParameterMap, token string) *rendering.Binding {
	resp, err := b.executor.Do(ctx, domainsvc.BuildRequest(api, params, token))
	if err != nil {
		b.logger.Render().Warn("Data fetch failed", "apiId", api.ID, "error", err)
		return &rendering.Binding{Found: true, Err: errors.New(FetchErrorMessage(err))}
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return &rendering.Binding{Found: true, Raw: resp.Body}
	}
	data, err := domainsvc.DecodeJSON(resp.Body)
	if err != nil {
		b.logger.Render().Warn("Data response is not JSON", "apiId", api.ID, "error", err)
		return &rendering.Binding{Found: true, Raw: resp.Body, Err: errors.New(InvalidResponseMessage)}
	}
	return &rendering.Binding{Found: true, Data: data, Raw: resp.Body}
}

// InvalidResponseMessage is shown for a successful response whose body is
// not JSON.
const InvalidResponseMessage = "Response is not valid JSON"

// FetchErrorMessage is the user-facing text of a failed call. Details stay
// in the log.
func FetchErrorMessage(err error) string {
	var respErr *outbound.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Sprintf("Failed to fetch data (status %d)", respErr.StatusCode)
	}
	return "Failed to fetch data"
}

// Prefetch fetches, concurrently, every response the tree needs: one per
// table or detail node, and one per API used for field defaults. The result
// maps component ids to bindings; components whose apiId is unknown get an
// unbound entry.
func (b *BindingService) Prefetch(ctx context.Context, tree []content.ComponentNode, apis []content.ApiDefinition, params *rendering.ParameterMap, token string) map[string]*rendering.Binding {
	start := time.Now()
	bindings := make(map[string]*rendering.Binding)
	var mu sync.Mutex
	store := func(ids []string, binding *rendering.Binding) {
		mu.Lock()
		defer mu.Unlock()
		for _, id := range ids {
			bindings[id] = binding
		}
	}

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	fieldsByAPI := map[string][]string{}
	var apiOrder []string

	domainsvc.WalkComponents(tree, func(node *content.ComponentNode, _ *content.ComponentNode) bool {
		switch {
		case node.Type.IsDataBound():
			api, ok := content.FindAPI(apis, node.ApiID)
			if !ok {
				store([]string{node.ID}, &rendering.Binding{Found: false})
				return true
			}
			id, def := node.ID, *api
			g.Go(func() error {
				store([]string{id}, b.Fetch(ctx, def, params, token))
				return nil
			})
		case node.Type.IsFormField() && domainsvc.UsesAPIDefault(*node):
			if _, seen := fieldsByAPI[node.ApiID]; !seen {
				apiOrder = append(apiOrder, node.ApiID)
			}
			fieldsByAPI[node.ApiID] = append(fieldsByAPI[node.ApiID], node.ID)
		}
		return true
	})

	for _, apiID := range apiOrder {
		ids := fieldsByAPI[apiID]
		api, ok := content.FindAPI(apis, apiID)
		if !ok {
			store(ids, &rendering.Binding{Found: false})
			continue
		}
		def := *api
		g.Go(func() error {
			store(ids, b.Fetch(ctx, def, params, token))
			return nil
		})
	}

	_ = g.Wait()
	b.logger.Render().Debug("Prefetched component data", "bindings", len(bindings), "duration", time.Since(start))
	return bindings
}
