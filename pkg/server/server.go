package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/urlkit/internal/config"
	"github.com/vango-dev/urlkit/pkg/middleware"
)

// Config holds the service configuration.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:8080").
	// Default: "localhost:8080".
	Address string

	// DefaultBase resolves relative inputs to /v1/parse and /v1/resolve
	// when the request carries no base.
	DefaultBase string

	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// honored for client IPs and /v1/self.
	TrustedProxies []string

	// MetricsEnabled mounts Prometheus middleware and the metrics route.
	MetricsEnabled bool

	// MetricsPath is where metrics are served. Default: "/metrics".
	MetricsPath string

	// MetricsNamespace prefixes metric names. Default: "urlkit".
	MetricsNamespace string

	// Registerer and Gatherer back the metrics.
	// Default: prometheus.DefaultRegisterer and prometheus.DefaultGatherer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// TracingEnabled mounts the OpenTelemetry middleware.
	TracingEnabled bool

	// TracerName is the OpenTelemetry tracer name. Default: "urlkit".
	TracerName string

	// MaxBodyBytes limits request bodies. Default: 64KB.
	MaxBodyBytes int64

	// Timeouts for the underlying http.Server.
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// Logger receives request logs. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           config.DefaultHost + ":8080",
		MetricsEnabled:    true,
		MetricsPath:       config.DefaultMetricsPath,
		MetricsNamespace:  config.DefaultNamespace,
		Registerer:        prometheus.DefaultRegisterer,
		Gatherer:          prometheus.DefaultGatherer,
		TracerName:        config.DefaultTracerName,
		MaxBodyBytes:      64 * 1024,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// ConfigFrom maps a loaded urlkit.json onto a service Config.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.Address = cfg.Address()
	c.DefaultBase = cfg.DefaultBase
	c.TrustedProxies = cfg.Server.TrustedProxies
	c.MetricsEnabled = cfg.Metrics.Enabled
	c.MetricsPath = cfg.Metrics.Path
	c.MetricsNamespace = cfg.Metrics.Namespace
	c.TracingEnabled = cfg.Tracing.Enabled
	c.TracerName = cfg.Tracing.TracerName
	return c
}

// Server is the urlkit HTTP service.
type Server struct {
	config         *Config
	router         chi.Router
	trustedProxies *proxyMatcher
	httpServer     *http.Server
	logger         *slog.Logger
}

// New creates a Server. Unset fields of cfg take their defaults.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		// Fill in defaults for any unset fields
		defaults := DefaultConfig()
		if cfg.Address == "" {
			cfg.Address = defaults.Address
		}
		if cfg.MetricsPath == "" {
			cfg.MetricsPath = defaults.MetricsPath
		}
		if cfg.MetricsNamespace == "" {
			cfg.MetricsNamespace = defaults.MetricsNamespace
		}
		if cfg.Registerer == nil {
			cfg.Registerer = defaults.Registerer
		}
		if cfg.Gatherer == nil {
			cfg.Gatherer = defaults.Gatherer
		}
		if cfg.TracerName == "" {
			cfg.TracerName = defaults.TracerName
		}
		if cfg.MaxBodyBytes == 0 {
			cfg.MaxBodyBytes = defaults.MaxBodyBytes
		}
		if cfg.ShutdownTimeout == 0 {
			cfg.ShutdownTimeout = defaults.ShutdownTimeout
		}
		if cfg.ReadHeaderTimeout == 0 {
			cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
		}
		if cfg.ReadTimeout == 0 {
			cfg.ReadTimeout = defaults.ReadTimeout
		}
		if cfg.WriteTimeout == 0 {
			cfg.WriteTimeout = defaults.WriteTimeout
		}
		if cfg.IdleTimeout == 0 {
			cfg.IdleTimeout = defaults.IdleTimeout
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	s := &Server{
		config:         cfg,
		trustedProxies: newProxyMatcher(cfg.TrustedProxies, logger),
		logger:         logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(s.canonicalPaths)
	if s.config.TracingEnabled {
		r.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(s.config.TracerName),
			middleware.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != s.config.MetricsPath
			}),
		))
	}
	if s.config.MetricsEnabled {
		r.Use(middleware.Prometheus(
			middleware.WithNamespace(s.config.MetricsNamespace),
			middleware.WithRegistry(s.config.Registerer),
		))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/resolve", s.handleResolve)
		r.Post("/params", s.handleParams)
		r.Get("/self", s.handleSelf)
	})
	if s.config.MetricsEnabled {
		r.Method(http.MethodGet, s.config.MetricsPath,
			promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
