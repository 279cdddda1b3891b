package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"slotbook/internal/booking"
	"slotbook/internal/caldav"
	"slotbook/internal/config"
	"slotbook/internal/googlecal"
	"slotbook/internal/ics"
	"slotbook/internal/instrumentation"
)

// Backend bundles one calendar backend's read/write clients and codecs.
type Backend struct {
	Searcher booking.EventSearcher
	Creator  booking.EventCreator
	Parser   booking.EventParser
	Builder  booking.EventBuilder
	Name     string
}

// ServerContext holds the shared state for the MCP server: the booking
// engine wired to the configured calendar backend.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg         *config.Config
	zone        *time.Location
	window      booking.Window
	policy      booking.Policy
	resolver    *booking.Resolver
	coordinator *booking.Coordinator
	gate        *booking.Gate
	backend     string

	mu       sync.RWMutex
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	shutdown bool
}

// NewServerContext creates a server context from the configuration,
// wiring the backend the config selects.
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	zone, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	window, err := cfg.BookingWindow()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.BookingPolicy()
	if err != nil {
		return nil, err
	}
	writeCal, err := cfg.WriteSourceCalendar()
	if err != nil {
		return nil, err
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	backend, err := newBackend(shutdownCtx, cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	calendars := cfg.SourceCalendars()

	resolver, err := booking.NewResolver(backend.Searcher, backend.Parser, calendars, window, zone, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	coordinator, err := booking.NewCoordinator(backend.Searcher, backend.Creator, backend.Parser, backend.Builder, calendars, writeCal, zone, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		cfg:         cfg,
		zone:        zone,
		window:      window,
		policy:      policy,
		resolver:    resolver,
		coordinator: coordinator,
		gate:        booking.NewGate(),
		backend:     backend.Name,
	}, nil
}

// NewServerContextWithBackend creates a server context around an
// already-wired backend. Used by tests to avoid touching the network.
func NewServerContextWithBackend(ctx context.Context, cfg *config.Config, backend Backend, logger *slog.Logger) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	zone, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	window, err := cfg.BookingWindow()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.BookingPolicy()
	if err != nil {
		return nil, err
	}
	writeCal, err := cfg.WriteSourceCalendar()
	if err != nil {
		return nil, err
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	calendars := cfg.SourceCalendars()

	resolver, err := booking.NewResolver(backend.Searcher, backend.Parser, calendars, window, zone, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	coordinator, err := booking.NewCoordinator(backend.Searcher, backend.Creator, backend.Parser, backend.Builder, calendars, writeCal, zone, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		cfg:         cfg,
		zone:        zone,
		window:      window,
		policy:      policy,
		resolver:    resolver,
		coordinator: coordinator,
		gate:        booking.NewGate(),
		backend:     backend.Name,
	}, nil
}

func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendCalDAV:
		username, password, err := config.CalDAVCredentials()
		if err != nil {
			return Backend{}, err
		}
		client, err := caldav.NewClient(caldav.Config{
			Username: username,
			Password: password,
		}, logger)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Searcher: client,
			Creator:  client,
			Parser:   ics.NewParser(logger),
			Builder:  ics.NewBuilder(),
			Name:     config.BackendCalDAV,
		}, nil

	case config.BackendGoogleCal:
		client, err := googlecal.NewClientForAccount(ctx, cfg.GoogleAccount, logger)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Searcher: client,
			Creator:  client,
			Parser:   googlecal.NewParser(),
			Builder:  googlecal.NewBuilder(),
			Name:     config.BackendGoogleCal,
		}, nil
	}

	return Backend{}, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Context returns the server's shutdown-aware context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Zone returns the reference civil zone.
func (sc *ServerContext) Zone() *time.Location {
	return sc.zone
}

// Window returns the daily bookable-hour range.
func (sc *ServerContext) Window() booking.Window {
	return sc.window
}

// Policy returns the date-level booking policy.
func (sc *ServerContext) Policy() booking.Policy {
	return sc.policy
}

// Resolver returns the availability resolver.
func (sc *ServerContext) Resolver() *booking.Resolver {
	return sc.resolver
}

// Coordinator returns the slot booking coordinator.
func (sc *ServerContext) Coordinator() *booking.Coordinator {
	return sc.coordinator
}

// Gate returns the per-user booking gate.
func (sc *ServerContext) Gate() *booking.Gate {
	return sc.gate
}

// BackendName returns the active backend's name.
func (sc *ServerContext) BackendName() string {
	return sc.backend
}

// SetInstrumentation attaches metrics and audit logging. Both may be
// nil when instrumentation is disabled.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.audit = audit
}

// Metrics returns the metrics recorder, or nil when disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
