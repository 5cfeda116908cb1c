package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/config"
	"github.com/nulzo/model-sync-api/internal/core/services"
	"github.com/nulzo/model-sync-api/internal/gateway"
	"github.com/nulzo/model-sync-api/internal/store"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service gateway.Service
	sync    *services.Controller
	repo    store.Repository
}

func New(cfg *config.Config, logger *zap.Logger, service gateway.Service, sync *services.Controller, repo store.Repository) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		service: service,
		sync:    sync,
		repo:    repo,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
