// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the trainer over a local HTTP API with a small
// embedded UI. It is meant to run on loopback for a single learner; the
// API carries all state and the UI is presentation only.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/internal/store"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires the reference library and the session store behind the
// HTTP API.
type Server struct {
	cfg    types.Config
	lib    *library.Library
	store  *store.Store
	engine *gin.Engine
}

// New builds the router with all routes and middleware registered.
func New(cfg types.Config, lib *library.Library, st *store.Store) *Server {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:   cfg,
		lib:   lib,
		store: st,
	}

	router := gin.New()
	router.Use(RequestID(), Logging(), gin.Recovery())

	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)
	router.GET("/", s.index)

	api := router.Group("/api/v1")
	s.registerRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine = router
	return s
}

func (s *Server) registerRoutes(r *gin.RouterGroup) {
	// Reference library
	r.GET("/library/checklist", s.getChecklist)
	r.GET("/library/technical", s.getTechnicalFactors)
	r.GET("/library/patterns", s.getPatterns)
	r.GET("/library/differentials", s.getDifferentials)

	// Teaching cases
	r.GET("/cases", s.listCases)
	r.GET("/cases/:id", s.getCase)
	r.POST("/cases", s.createCase)
	r.POST("/cases/:id/attempts", s.recordAttempt)

	// Review sessions
	r.POST("/sessions", s.createSession)
	r.GET("/sessions", s.listSessions)
	r.GET("/sessions/:id", s.getSession)
	r.PUT("/sessions/:id", s.updateSession)
	r.DELETE("/sessions/:id", s.deleteSession)
	r.GET("/sessions/:id/report", s.sessionReport)
	r.GET("/sessions/:id/review", s.sessionReview)

	// Assessment
	r.POST("/assess/technical", s.assessTechnical)
	r.POST("/patterns/classify", s.classifyPattern)

	r.GET("/progress", s.getProgress)
	r.GET("/search", s.search)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serving on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info("shutting down server...")

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Regions": types.ReviewSequence,
		"Factors": types.TechnicalFactors,
	})
}
