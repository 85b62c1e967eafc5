// Package server is the HTTP face of a session: a JSON API mirroring the
// dashboard inputs, a websocket that pushes every finished run, and the
// Prometheus endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rustyeddy/kellysim/config"
	"github.com/rustyeddy/kellysim/metrics"
	"github.com/rustyeddy/kellysim/session"
	"go.uber.org/zap"
)

// Server wires a session to HTTP.
type Server struct {
	cfg      config.ServerConfig
	sess     *session.Session
	metrics  *metrics.Metrics
	log      *zap.Logger
	engine   *gin.Engine
	upgrader websocket.Upgrader

	mu     sync.Mutex
	inputs config.SimulationConfig
}

// New builds the router. inputs are the starting dashboard values, clamped
// to the widget ranges; they are applied to sess on the first request if
// nothing has run yet.
func New(cfg config.ServerConfig, inputs config.SimulationConfig, sess *session.Session, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		sess:    sess,
		metrics: m,
		log:     log,
		inputs:  inputs.Clamp(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	api.GET("/simulation", s.getSimulation)
	api.POST("/simulation", s.postSimulation)
	api.POST("/simulation/rerun", s.postRerun)
	api.GET("/simulation/csv", s.getCSV)
	api.GET("/kelly", s.getKelly)

	r.GET("/ws", s.serveWS)

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	read, write, err := s.cfg.Timeouts()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      write,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http server shutdown error", zap.Error(err))
		return err
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
