package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/sidecarctl/internal/notify"
	"github.com/danmuck/sidecarctl/internal/observability"
	"github.com/danmuck/sidecarctl/internal/ports"
	"github.com/danmuck/sidecarctl/internal/server"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidHeartbeatInterval = errors.New("supervisor: invalid heartbeat interval")
	ErrInvalidMode              = errors.New("supervisor: invalid mode")
	ErrTerminateBackend         = errors.New("supervisor: terminate backend")
)

// Mode selects backend launch behavior. It is fixed at build time and
// never read from configuration.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// ServiceConfig configures supervisor runtime defaults.
type ServiceConfig struct {
	SidecarName       string
	SidecarDir        string
	ListenAddr        string
	CorsOrigins       []string
	HeartbeatInterval time.Duration
	HistorySize       int
	ShutdownGrace     time.Duration
	Mode              Mode
}

// DefaultServiceConfig returns supervisor defaults for the current build.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SidecarName:       BackendSidecar,
		SidecarDir:        "",
		ListenAddr:        "127.0.0.1:7130",
		CorsOrigins:       []string{"http://localhost:3000"},
		HeartbeatInterval: 5 * time.Second,
		HistorySize:       notify.DefaultHistorySize,
		ShutdownGrace:     5 * time.Second,
		Mode:              buildMode,
	}
}

// Service owns the backend child lifecycle: port assignment, launch, event
// relay, the command surface, and shutdown teardown. Nothing the backend
// does is allowed to take the supervisor down with it.
type Service struct {
	cfg      ServiceConfig
	registry *Registry
	hub      *notify.Hub
}

// Supervisor service constructor using default configuration.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// Supervisor service constructor using explicit configuration.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if strings.TrimSpace(cfg.SidecarName) == "" {
		cfg.SidecarName = BackendSidecar
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultServiceConfig().ListenAddr
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = notify.DefaultHistorySize
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = DefaultServiceConfig().ShutdownGrace
	}
	if strings.TrimSpace(string(cfg.Mode)) == "" {
		cfg.Mode = buildMode
	}
	return &Service{
		cfg:      cfg,
		registry: NewRegistry(),
		hub:      notify.NewHub(cfg.HistorySize),
	}
}

// Supervisor runtime entrypoint that blocks until signal shutdown.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.bootstrap(); err != nil {
		return err
	}
	return s.serve(ctx)
}

// Hub returns the notification hub carrying relayed backend events.
func (s *Service) Hub() *notify.Hub {
	return s.hub
}

// BackendPort reports the port the backend serves on. Before assignment,
// and always in development mode, it reports DefaultBackendPort.
func (s *Service) BackendPort() uint16 {
	if port := s.registry.Port(); port != 0 {
		return port
	}
	return DefaultBackendPort
}

// TerminateBackend kills the supervised backend if one is active. With no
// active child it succeeds vacuously. A kill failure is returned, but the
// handle stays consumed either way.
func (s *Service) TerminateBackend() error {
	handle := s.registry.Take()
	if handle == nil {
		return nil
	}
	observability.RecordBackendTermination("command")
	if err := handle.Kill(); err != nil {
		return fmt.Errorf("%w: %v", ErrTerminateBackend, err)
	}
	log.Info().Int("pid", handle.PID()).Msg("backend_terminated_via_command")
	return nil
}

// BackendRunning reports whether a child handle is currently held.
func (s *Service) BackendRunning() bool {
	return s.registry.Active()
}

// Mode reports the build-time launch mode.
func (s *Service) Mode() string {
	return string(s.cfg.Mode)
}

// Supervisor bootstrap sequence: assign port, launch sidecar, start relay.
// Launch trouble is logged and relayed, never returned; the command
// surface stays serviceable without a backend.
func (s *Service) bootstrap() error {
	if s.cfg.HeartbeatInterval <= 0 {
		return ErrInvalidHeartbeatInterval
	}
	if err := validateMode(s.cfg.Mode); err != nil {
		return err
	}

	if s.cfg.Mode == ModeDevelopment {
		log.Info().Uint16("port", DefaultBackendPort).Msg("development_mode")
		log.Info().Str("sidecar", s.cfg.SidecarName).Msg("start the backend manually; launch and port assignment are disabled")
		return nil
	}

	port := ports.AllocateOrDefault(DefaultBackendPort)
	s.registry.SetPort(port)
	log.Info().Uint16("port", port).Msg("backend_port_assigned")

	catalog, err := NewCatalog(s.cfg.SidecarDir)
	if err != nil {
		s.reportLaunchFailure(err)
		return nil
	}
	events, handle, err := NewLauncher(catalog).Launch(s.cfg.SidecarName, port)
	if err != nil {
		s.reportLaunchFailure(err)
		return nil
	}
	observability.RecordBackendLaunch("ok")
	s.registry.Store(handle)
	log.Info().Int("pid", handle.PID()).Uint16("port", port).Str("sidecar", s.cfg.SidecarName).Msg("backend_launched")

	go NewRelay(s.registry, s.hub).Run(events)
	return nil
}

func (s *Service) reportLaunchFailure(err error) {
	observability.RecordBackendLaunch("error")
	log.Error().Err(err).Str("sidecar", s.cfg.SidecarName).Msg("backend_launch_failed")
	s.hub.Publish(notify.Notification{
		Channel: notify.ChannelBackendError,
		Text:    fmt.Sprintf("launch error: %v", err),
	})
}

// Supervisor main loop for heartbeat logging and the control-plane HTTP
// server. Context end triggers the shutdown hook before the loop returns.
func (s *Service) serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	api := server.New(server.Config{
		ListenAddr:  s.cfg.ListenAddr,
		CorsOrigins: s.cfg.CorsOrigins,
		Component:   "supervisor-api",
	}, s, s.hub)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- api.Serve()
	}()

	for {
		select {
		case <-ctx.Done():
			s.shutdownBackend()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
			defer cancel()
			if err := api.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("api_shutdown_failed")
			}
			<-serveErr
			log.Info().Msg("supervisor_shutdown")
			return nil
		case err := <-serveErr:
			s.shutdownBackend()
			return err
		case <-ticker.C:
			log.Info().
				Str("mode", string(s.cfg.Mode)).
				Uint16("port", s.BackendPort()).
				Bool("backend_running", s.BackendRunning()).
				Int("subscribers", s.hub.SubscriberCount()).
				Msg("supervisor_heartbeat")
		}
	}
}

// Supervisor shutdown hook: take-and-kill with log-only error handling so
// teardown never fails the host.
func (s *Service) shutdownBackend() {
	handle := s.registry.Take()
	if handle == nil {
		return
	}
	observability.RecordBackendTermination("shutdown")
	if err := handle.Kill(); err != nil {
		log.Warn().Err(err).Int("pid", handle.PID()).Msg("backend_kill_failed")
		return
	}
	log.Info().Int("pid", handle.PID()).Msg("backend_terminated_on_shutdown")
}

func validateMode(mode Mode) error {
	switch mode {
	case ModeProduction, ModeDevelopment:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}
