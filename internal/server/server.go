// Package server exposes audits over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"seoaudit/audit"
	"seoaudit/internal/limiter"
	"seoaudit/internal/pipeline"
	"seoaudit/internal/urlutil"
)

const (
	cacheHeader     = "X-Cache"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 15 * time.Second
	// An audit can take several page timeouts plus a recommendation call.
	writeTimeout = 3 * time.Minute
)

// Auditor runs one audit request.
type Auditor interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

// Config holds the HTTP surface settings. RateLimitRPS of zero disables rate limiting.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Clock          limiter.Timer
}

// Server routes audit requests to an Auditor.
type Server struct {
	engine  *gin.Engine
	auditor Auditor
	logger  *zap.Logger
}

// New builds the router. The gin mode is a process-wide setting left to the caller.
func New(auditor Auditor, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = limiter.NewClock()
	}

	s := &Server{
		engine:  gin.New(),
		auditor: auditor,
		logger:  logger,
	}

	s.engine.Use(recovery(logger), requestLog(logger, cfg.Clock))
	if cfg.RateLimitRPS > 0 {
		s.engine.Use(newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Clock).middleware())
	}

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/audit", s.audit)
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) audit(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if _, err := urlutil.ParseRoot(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": audit.UserMessage(audit.ErrInvalidURL)})
		return
	}

	outcome, err := s.auditor.Run(c.Request.Context(), req)
	if err != nil {
		s.logger.Warn("audit failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": audit.UserMessage(err)})
		return
	}

	if outcome.Cached {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, outcome)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, audit.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, audit.ErrHomepageUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
