package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/sidecarctl/internal/notify"
	"github.com/danmuck/sidecarctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Backend is the supervisor command surface the control plane exposes to
// the consuming application.
type Backend interface {
	BackendPort() uint16
	TerminateBackend() error
	BackendRunning() bool
	Mode() string
}

// Config holds control-plane listener settings.
type Config struct {
	ListenAddr  string
	CorsOrigins []string
	Component   string
}

// Server is the control-plane HTTP boundary: backend commands, the
// websocket notification bridge, health, and metrics.
type Server struct {
	cfg     Config
	backend Backend
	hub     *notify.Hub
	engine  *gin.Engine
	httpSrv *http.Server
	started time.Time
}

// New wires the gin engine, middleware, and routes for one backend.
func New(cfg Config, backend Backend, hub *notify.Hub) *Server {
	observability.RegisterMetrics()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestLogger(log.Logger))
	engine.Use(observability.RequestMetricsMiddleware(cfg.Component))
	engine.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{
		cfg:     cfg,
		backend: backend,
		hub:     hub,
		engine:  engine,
		started: time.Now(),
	}
	s.registerRoutes()
	s.httpSrv = &http.Server{Addr: cfg.ListenAddr, Handler: engine}
	return s
}

// Handler exposes the configured engine for in-process serving and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve blocks on the listener until Shutdown or listener failure.
func (s *Server) Serve() error {
	log.Info().Str("addr", s.cfg.ListenAddr).Str("component", s.cfg.Component).Msg("control_plane_listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
