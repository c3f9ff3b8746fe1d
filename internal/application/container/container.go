// Package container provides dependency injection for all singleton services
package container

import (
	"time"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/domain/repositories"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/outbound"
	"github.com/AtRiskMedia/admini-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	DocumentService *services.DocumentService
	BindingService  *services.BindingService
	SessionService  *services.SessionService
	AuthService     *services.AuthService
	RenderService   *services.RenderService
	ActionService   *services.ActionService
	MediaService    *services.MediaService

	// Infrastructure Dependencies
	Repository    repositories.DocumentRepository
	Executor      outbound.Executor
	Broadcaster   *messaging.EditorBroadcaster
	TokenStore    *stores.TokensStore
	CleanupWorker *cleanup.Worker
	Logger        *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services around repo.
func NewContainer(repo repositories.DocumentRepository, logger *logging.ChanneledLogger) *Container {
	executor := outbound.NewClient(config.OutboundTimeout, logger)
	return NewContainerWithExecutor(repo, executor, logger)
}

// NewContainerWithExecutor wires the services with a custom outbound
// executor. Tests pass fakes here.
func NewContainerWithExecutor(repo repositories.DocumentRepository, executor outbound.Executor, logger *logging.ChanneledLogger) *Container {
	broadcaster := messaging.NewEditorBroadcaster(logger)
	tokens := stores.NewTokensStore(config.TokenTTL, logger)

	documentService := services.NewDocumentService(repo, broadcaster, logger)
	bindingService := services.NewBindingService(executor, logger)
	sessionService := services.NewSessionService(tokens, bindingService, logger)
	authService := services.NewAuthService(services.AuthConfig{
		AdminUsername: config.AdminUsername,
		AdminPassword: config.AdminPassword,
		JWTSecret:     config.JWTSecret,
		SessionTTL:    secondsOrDefault(config.CookieMaxAge),
	}, logger)

	renderConfig := services.RenderConfig{
		StatusWindow:     config.StatusWindow,
		TrustEmbedMarkup: config.TrustEmbedMarkup,
	}

	return &Container{
		DocumentService: documentService,
		BindingService:  bindingService,
		SessionService:  sessionService,
		AuthService:     authService,
		RenderService:   services.NewRenderService(documentService, bindingService, sessionService, authService, renderConfig, logger),
		ActionService:   services.NewActionService(documentService, sessionService, executor, config.StatusWindow, logger),
		MediaService:    services.NewMediaService(documentService, media.NewImageProcessor(config.MediaDir, logger), config.AppIconWidth, logger),

		Repository:    repo,
		Executor:      executor,
		Broadcaster:   broadcaster,
		TokenStore:    tokens,
		CleanupWorker: cleanup.NewWorker(cleanup.NewConfig(), logger, tokens),
		Logger:        logger,
	}
}

func secondsOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
