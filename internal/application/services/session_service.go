package services

import (
	"context"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

// SessionService tracks page-load sessions: the auth token acquired when a
// published page became ready, reused by that page's actions and refreshes.
type SessionService struct {
	tokens   interfaces.TokenCache
	bindings *BindingService
	logger   *logging.ChanneledLogger
}

// NewSessionService creates a new session service
func NewSessionService(tokens interfaces.TokenCache, bindings *BindingService, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{tokens: tokens, bindings: bindings, logger: logger}
}

// Start acquires the auth token for a page load and stores it under a new
// session id.
func (s *SessionService) Start(ctx context.Context, apis []content.ApiDefinition, params *rendering.ParameterMap) (sessionID, token string) {
	token = s.bindings.AcquireAuthToken(ctx, apis, params)
	sessionID = s.tokens.Put(token)
	return sessionID, token
}

// Token returns the session's token. An unknown or expired session acquires
// a fresh token without storing it.
func (s *SessionService) Token(ctx context.Context, sessionID string, apis []content.ApiDefinition, params *rendering.ParameterMap) string {
	if sessionID != "" {
		if token, ok := s.tokens.Get(sessionID); ok {
			return token
		}
		s.logger.Auth().Debug("Page session unknown, reacquiring token", "sessionId", sessionID)
	}
	return s.bindings.AcquireAuthToken(ctx, apis, params)
}

// routeParams re-matches path and returns its captures when it still
// resolves to page; otherwise the page renders with no params.
func routeParams(pages []content.PageDefinition, page *content.PageDefinition, path string) *rendering.ParameterMap {
	if match, ok := domainsvc.MatchRoute(pages, path); ok && match.Page.ID == page.ID {
		return match.Params
	}
	return rendering.NewParameterMap()
}
