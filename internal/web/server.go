package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
	"github.com/aukit/nof1-reporter/internal/report"
)

// SnapshotFunc produces a fresh aggregation snapshot for one request.
type SnapshotFunc func(ctx context.Context) (*report.Snapshot, error)

type Server struct {
	httpServer *http.Server
	snapshot   SnapshotFunc
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(snapshot SnapshotFunc, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		snapshot: snapshot,
		config:   cfg,
		logger:   log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.GET("/trade-summary", s.handleTradeSummary)
		api.GET("/account-summary", s.handleAccountSummary)
		api.GET("/overall-summary", s.handleOverallSummary)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
