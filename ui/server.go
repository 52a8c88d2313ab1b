package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinicsetup/app"
	"clinicsetup/internal"
	"clinicsetup/ui/middleware"
)

// Server is the HTTP surface of the setup wizard.
type Server struct {
	router   *gin.Engine
	imports  *app.ImportService
	sessions *app.SessionService
	logger   *internal.Logger
	http     *http.Server
}

// NewServer creates the server and registers every route.
func NewServer(imports *app.ImportService, sessions *app.SessionService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	s := &Server{
		router:   router,
		imports:  imports,
		sessions: sessions,
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/domains", s.handleListDomains)
	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.PUT("/sessions/:id/step", s.handleSetStep)
	api.POST("/sessions/:id/pre-setup", s.handleCompletePreSetup)
	api.GET("/sessions/:id/collections/:domain", s.handleGetCollection)
	api.PUT("/sessions/:id/collections/:domain", s.handleReplaceCollection)
	api.POST("/sessions/:id/imports/:domain", s.handleImport)
	api.GET("/sessions/:id/imports/:domain", s.handleImportStatus)
	api.POST("/preview/:domain", s.handlePreview)
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("[Server] Listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
