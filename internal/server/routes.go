package server

import (
	"github.com/nulzo/model-sync-api/internal/server/middleware"
	v1 "github.com/nulzo/model-sync-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	// 1. Global Middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Tracing("model-sync-api"))
	s.router.Use(middleware.ErrorHandler(s.logger))

	// 2. Health Check (Public)
	healthHandler := v1.NewHealthHandler(s.sync)
	s.router.GET("/health", healthHandler.Health)

	// 3. API V1 Group
	api := s.router.Group("/v1")
	{
		modelsHandler := v1.NewModelHandler(s.service)
		api.GET("/models", modelsHandler.ListModels)

		limiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerSecond,
			s.config.RateLimit.Burst,
			s.logger,
		)

		chatHandler := v1.NewChatHandler(s.service)
		api.POST("/chat/completions", limiter.Middleware(), chatHandler.CreateCompletion)

		if s.repo != nil {
			auditHandler := v1.NewAuditHandler(s.repo)
			admin := api.Group("/admin")
			admin.GET("/sync-runs", auditHandler.ListSyncRuns)
			admin.GET("/dispatches", auditHandler.ListDispatches)
		}
	}
}
