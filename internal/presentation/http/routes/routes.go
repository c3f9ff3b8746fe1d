// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/container"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/admini-go/internal/presentation/i18n"
	"github.com/AtRiskMedia/admini-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(config.CORSOrigins))
	r.Use(middleware.RouteGate())

	r.Static("/media", config.MediaDir)

	// Initialize handlers
	healthHandlers := handlers.NewHealthHandlers(container.DocumentService)
	pageHandlers := handlers.NewPageHandlers(container.RenderService, container.Logger)
	actionHandlers := handlers.NewActionHandlers(container.ActionService, config.MaxUploadBytes, container.Logger)
	authHandlers := handlers.NewAuthHandlers(
		container.AuthService,
		container.DocumentService,
		container.RenderService,
		handlers.CookieConfig{MaxAge: config.CookieMaxAge, Secure: config.CookieSecure},
		container.Logger,
	)
	adminHandlers := handlers.NewAdminHandlers(container.DocumentService, container.MediaService, container.Logger)
	editorHandlers := handlers.NewEditorHandlers(
		container.DocumentService,
		container.RenderService,
		container.MediaService,
		container.Broadcaster,
		config.MaxUploadBytes,
		container.Logger,
	)

	r.GET("/healthz", healthHandlers.GetHealth)
	r.GET("/metrics", gin.WrapH(metrics.Get().Handler()))

	r.GET(middleware.UserLoginPath, authHandlers.GetUserLogin)
	r.GET(middleware.AdminLoginPath, authHandlers.GetAdminLogin)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandlers.PostUserLogin)
		auth.POST("/logout", authHandlers.PostUserLogout)
		auth.POST("/admin/login", authHandlers.PostAdminLogin)
		auth.POST("/admin/logout", authHandlers.PostAdminLogout)
	}

	// Published page runtime
	app := r.Group("/app")
	{
		app.GET("/content", pageHandlers.GetContent)
		app.GET("/fragments/:pageId/:componentId", pageHandlers.GetFragment)
		app.GET("/actions/status", pageHandlers.GetStatusReset)
		app.POST("/actions/button/:pageId/:componentId", actionHandlers.PostButton)
		app.POST("/actions/row/:pageId/:componentId/:actionId", actionHandlers.PostRow)
		app.POST("/actions/form/:pageId/:componentId", actionHandlers.PostForm)
	}

	adminOnly := middleware.AdminOnly(container.AuthService)

	storage := r.Group("/api/storage", adminOnly)
	{
		storage.GET("", adminHandlers.GetStorage)
		storage.POST("", adminHandlers.PostStorage)
	}

	api := r.Group("/api/admin", adminOnly)
	{
		api.GET("/apis", adminHandlers.GetAPIs)
		api.POST("/apis", adminHandlers.SaveAPI)
		api.PUT("/apis/:id", adminHandlers.SaveAPI)
		api.DELETE("/apis/:id", adminHandlers.DeleteAPI)

		api.GET("/pages", adminHandlers.GetPages)
		api.POST("/pages", adminHandlers.SavePage)
		api.GET("/pages/:id", adminHandlers.GetPage)
		api.PUT("/pages/:id", adminHandlers.SavePage)
		api.DELETE("/pages/:id", adminHandlers.DeletePage)

		api.POST("/pages/:id/components", adminHandlers.InsertComponent)
		api.PUT("/pages/:id/components/:componentId", adminHandlers.UpdateComponent)
		api.DELETE("/pages/:id/components/:componentId", adminHandlers.DeleteComponent)
		api.POST("/pages/:id/components/:componentId/move", adminHandlers.MoveComponent)

		api.GET("/sidebar", adminHandlers.GetSidebar)
		api.PUT("/sidebar", adminHandlers.PutSidebar)

		api.GET("/settings", adminHandlers.GetSettings)
		api.PUT("/settings", adminHandlers.PutSettings)

		api.GET("/users", adminHandlers.GetUsers)
		api.POST("/users", adminHandlers.SaveUser)
		api.PUT("/users/:id", adminHandlers.SaveUser)
		api.DELETE("/users/:id", adminHandlers.DeleteUser)
	}

	admin := r.Group(middleware.AdminHomePath, adminOnly, i18n.Middleware())
	{
		admin.GET("", editorHandlers.GetDashboard)
		admin.POST("/language", editorHandlers.PostLanguage)
		admin.POST("/pages", editorHandlers.PostPage)
		admin.POST("/pages/:id/delete", editorHandlers.PostDeletePage)
		admin.POST("/settings", editorHandlers.PostSettings)

		editor := admin.Group("/editor/:pageId")
		{
			editor.GET("", editorHandlers.GetEditor)
			editor.GET("/canvas", editorHandlers.GetCanvas)
			editor.GET("/ws", editorHandlers.GetSocket)
			editor.GET("/properties/:componentId", editorHandlers.GetProperties)
			editor.POST("/components", editorHandlers.PostComponent)
			editor.POST("/components/:componentId", editorHandlers.PostComponentPatch)
			editor.DELETE("/components/:componentId", editorHandlers.DeleteComponent)
			editor.POST("/components/:componentId/move", editorHandlers.PostMoveComponent)
		}
	}

	// Every other path is a published page.
	r.NoRoute(pageHandlers.GetPage)

	return r
}
