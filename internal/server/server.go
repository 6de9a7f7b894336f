// Package server serves a catalog over the discover REST API consumed by
// catalog.HTTPClient.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

const serviceName = "membersel-catalog"

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server exposes a catalog.Client over HTTP.
type Server struct {
	client catalog.Client
	logger *slog.Logger
	router *gin.Engine
}

// New builds the router. gatherer backs /metrics; a nil gatherer uses the
// default registry.
func New(logger *slog.Logger, client catalog.Client, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	// Unique names are escaped as single path segments.
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	s := &Server{client: client, logger: logger, router: router}
	router.Use(s.logRequests)

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	discover := router.Group("/discover/:cube")
	discover.GET("/dimensions/:dimension/hierarchies/:hierarchy/levels", s.levels)
	discover.GET("/dimensions/:dimension/hierarchies/:hierarchy/levels/:level", s.levelMembers)
	discover.GET("/member/:uniqueName/children", s.childMembers)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Catalog server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down catalog server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) levels(c *gin.Context) {
	levels, err := s.client.Levels(c.Request.Context(), coordinates(c))
	s.respond(c, levels, err)
}

func (s *Server) levelMembers(c *gin.Context) {
	rows, err := s.client.LevelMembers(c.Request.Context(), coordinates(c), c.Param("level"))
	s.respond(c, rows, err)
}

func (s *Server) childMembers(c *gin.Context) {
	rows, err := s.client.ChildMembers(c.Request.Context(), c.Param("cube"), c.Param("uniqueName"))
	s.respond(c, rows, err)
}

func (s *Server) respond(c *gin.Context, body any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, body)
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Catalog lookup failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("Request served",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func coordinates(c *gin.Context) olap.Coordinates {
	return olap.Coordinates{
		Cube:      c.Param("cube"),
		Dimension: c.Param("dimension"),
		Hierarchy: c.Param("hierarchy"),
	}
}
