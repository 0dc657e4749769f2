// Package server exposes prayer times, Hijri dates and the qiblah over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/miqat/internal/notify"
	"github.com/leapstack-labs/miqat/internal/state"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// DefaultEventInterval is how often /api/events pushes a countdown update
// when nothing else changed.
const DefaultEventInterval = 30 * time.Second

// Settings is the calculation state served to clients.
type Settings struct {
	Location        salah.Location
	Calculation     salah.Config
	HijriCorrection int
}

// Config holds configuration for the server.
type Config struct {
	Addr     string
	Settings Settings
	// Store is optional; without it the location endpoints return 404.
	Store  state.Store
	Logger *slog.Logger

	// Watch reloads settings through Reload whenever ConfigPath changes.
	Watch      bool
	ConfigPath string
	Reload     func() (Settings, error)

	ShutdownTimeout time.Duration
	EventInterval   time.Duration
	// MaxConnections caps simultaneous connections, including open event
	// streams. Zero means no limit.
	MaxConnections int
	Now            func() time.Time
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	settings atomic.Pointer[Settings]
	notifier *notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new server instance.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.EventInterval <= 0 {
		cfg.EventInterval = DefaultEventInterval
	}

	s := &Server{
		cfg:      cfg,
		notifier: notify.New(),
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	settings := cfg.Settings
	s.settings.Store(&settings)
	return s
}

// Settings returns the settings currently served.
func (s *Server) Settings() Settings {
	return *s.settings.Load()
}

// SetSettings replaces the served settings and notifies event subscribers.
func (s *Server) SetSettings(settings Settings) {
	s.settings.Store(&settings)
	s.notifier.Broadcast(notify.Event{Reason: "settings", At: s.now()})
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notify.Notifier {
	return s.notifier
}

// Reload re-reads settings through the configured Reload function. The
// previous settings stay in place when it fails.
func (s *Server) Reload() error {
	if s.cfg.Reload == nil {
		return errors.New("reload not configured")
	}
	settings, err := s.cfg.Reload()
	if err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}
	s.SetSettings(settings)
	s.logger.Info("settings reloaded", "location", settings.Location.String())
	return nil
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.routes(r)
	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln and blocks until ctx is cancelled. The
// listener is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", "http://"+ln.Addr().String())
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.ConfigPath != "" {
		eg.Go(func() error {
			return notify.WatchFile(egctx, s.cfg.ConfigPath, notify.DefaultDebounce, s.logger, func() {
				if err := s.Reload(); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
