package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wattchdog/gateway-core/internal/configmsg"
	"github.com/wattchdog/gateway-core/internal/device"
	"github.com/wattchdog/gateway-core/internal/infrastructure/config"
	"github.com/wattchdog/gateway-core/internal/infrastructure/logging"
	"github.com/wattchdog/gateway-core/internal/intake"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Dispatcher hands a prepared configuration message to the transport.
// It is optional: without one, /api/config validates and acknowledges but
// nothing is published (the original "acknowledge only" mode).
type Dispatcher interface {
	Send(targetSerial string, msg *configmsg.PreparedMessage) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Logger     *logging.Logger
	Registry   *device.Registry
	Intake     *intake.Router
	Validator  *configmsg.Validator
	Dispatcher Dispatcher // optional
	Version    string
}

// Server is the HTTP API server for the WATTCHdog gateway.
//
// It manages the HTTP listener, routes, middleware, and the WebSocket hub
// that pushes registry changes to connected dashboards. The server is
// created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	registry   *device.Registry
	intake     *intake.Router
	validator  *configmsg.Validator
	dispatcher Dispatcher
	version    string

	server *http.Server
	hub    *hub
	cancel context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Intake == nil {
		return nil, fmt.Errorf("intake router is required")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("config validator is required")
	}

	s := &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		logger:     deps.Logger,
		registry:   deps.Registry,
		intake:     deps.Intake,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		version:    deps.Version,
	}
	s.hub = newHub(deps.WS, deps.Logger)

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It wires the registry change feed into the WebSocket hub, builds the
// router, and launches the HTTP listener in a background goroutine. The
// server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.run(srvCtx)

	// Push every registry mutation to connected WebSocket clients.
	s.registry.SetOnChange(s.hub.broadcastDevice)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
