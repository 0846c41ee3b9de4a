// Package api exposes the screening pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/logger"
	"github.com/huangsam/marketscope/schema"
)

// shutdownTimeout bounds how long in-flight analyses may run after a stop request.
const shutdownTimeout = 30 * time.Second

// analyzeFunc runs one analysis. It is core.GetAnalysisResult outside of tests.
type analyzeFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, error)

type handler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	analyze analyzeFunc
	version string
}

// NewRouter builds the HTTP routes around the live pipeline.
func NewRouter(baseCfg *contract.Config, mgr contract.CacheManager, version string) *gin.Engine {
	return newRouter(&handler{
		baseCfg: baseCfg,
		mgr:     mgr,
		analyze: core.GetAnalysisResult,
		version: version,
	})
}

func newRouter(h *handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/analyze", h.analyzeMarket)
	v1.POST("/queries", h.planQueries)
	v1.GET("/hscodes", h.suggestHSCodes)
	v1.GET("/weights", h.weights)
	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, version string) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           NewRouter(cfg, mgr, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithSource("api").WithField("addr", cfg.ServeAddr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.WithSource("api").Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request through the shared logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithSource("api").WithFields(map[string]any{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	}
}
