package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/roomboard/roomboard-core/internal/booking"
	"github.com/roomboard/roomboard-core/internal/directory"
	"github.com/roomboard/roomboard-core/internal/infrastructure/config"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/reconcile"
	"github.com/roomboard/roomboard-core/internal/sync"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// CalendarFetcher retrieves live calendar events for a set of rooms.
// Implemented by the remote calendar client; faked in tests.
type CalendarFetcher interface {
	FetchAllRooms(ctx context.Context, rooms []directory.Room, start, end time.Time) []reconcile.CalendarEvent
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Rooms    directory.Repository
	Store    booking.Store
	Sync     *sync.Service
	Calendar CalendarFetcher // optional; the events endpoint degrades without it

	// ExternalHub lets the caller share one hub between the server and the
	// sync broadcaster. When nil the server creates its own.
	ExternalHub *Hub
	Location    *time.Location
	Version     string
}

// Server is the HTTP API server for Roomboard Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	rooms    directory.Repository
	store    booking.Store
	sync     *sync.Service
	calendar CalendarFetcher
	loc      *time.Location
	version  string

	server      *http.Server
	hub         *Hub
	externalHub bool
	tickets     *ticketRegistry
	cancel      context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Rooms == nil {
		return nil, fmt.Errorf("room repository is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("booking store is required")
	}
	if deps.Sync == nil {
		return nil, fmt.Errorf("sync service is required")
	}

	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		secCfg:   deps.Security,
		logger:   deps.Logger,
		rooms:    deps.Rooms,
		store:    deps.Store,
		sync:     deps.Sync,
		calendar: deps.Calendar,
		loc:      loc,
		version:  deps.Version,
		tickets:  newTicketRegistry(deps.Security.WSTicket),
	}

	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and the ticket cleanup loop, then launches the
// HTTP listener in a background goroutine. Stop with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	go s.tickets.cleanLoop(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to gracefulShutdownTimeout for in-flight requests to complete,
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
