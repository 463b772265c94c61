// Package server exposes the retrieval engine as a JSON HTTP API
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/casematch/internal/argue"
	"github.com/ppiankov/casematch/internal/logger"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/pipeline"
	"github.com/ppiankov/casematch/internal/worker"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterIdle     = 10 * time.Minute
)

// Server serves the casematch API
type Server struct {
	pipeline  *pipeline.Pipeline
	generator *argue.Generator
	limiter   *worker.Limiter
	cfg       model.ServerConfig
	engine    *gin.Engine
}

// New builds the server and its routes
func New(p *pipeline.Pipeline, generator *argue.Generator, cfg model.ServerConfig) *Server {
	s := &Server{
		pipeline:  p,
		generator: generator,
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		cfg:       cfg,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(), rateLimit(s.limiter))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/offenses/:act/:section", s.getOffense)
		v1.GET("/search", s.search)
		v1.POST("/precedents", s.findPrecedents)
		v1.POST("/rights", s.scoreRights)
		v1.POST("/defenses", s.scoreDefenses)
		v1.POST("/analyze", s.analyze)
		v1.POST("/arguments", s.arguments)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			if n := s.limiter.Prune(limiterIdle); n > 0 {
				logger.Debug("pruned %d idle rate limiters, %d active", n, s.limiter.Len())
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		}
	}
}
