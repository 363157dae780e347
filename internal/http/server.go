package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dompet/internal/core"
	"dompet/internal/dashboard"
	"dompet/internal/i18n"
	applog "dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/middleware/security"
	"dompet/internal/middleware/trace"
	"dompet/internal/settings"
	appweb "dompet/web"
)

// DashboardService computes dashboard overviews.
type DashboardService interface {
	Overview(ctx context.Context, year, month int) (dashboard.Overview, error)
	Latest(ctx context.Context) (core.Period, error)
}

// SettingsService reads and updates user settings.
type SettingsService interface {
	Get(ctx context.Context) (core.Settings, error)
	Update(ctx context.Context, in settings.Input) (core.Settings, error)
}

// Pinger reports storage readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Dashboard     DashboardService
	Settings      SettingsService
	Ready         Pinger
	Catalog       *i18n.Catalog
	LocaleMatcher i18n.Matcher
	Limiter       *ratelimit.Limiter
	Detector      *security.Detector
	Logger        *applog.Logger
}

// Config holds listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	http.Server
	deps            Deps
	pages           pages
	logger          *applog.Logger
	localeRouting   bool
	shutdownTimeout time.Duration
	trace           *trace.Middleware
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = applog.Discard()
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.DefaultCatalog()
	}
	if deps.Detector == nil {
		deps.Detector = security.NewDetector()
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if deps.LocaleMatcher == nil {
		deps.LocaleMatcher = i18n.MatchNone()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	pages, err := parsePages(appweb.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		deps:            deps,
		pages:           pages,
		logger:          deps.Logger.WithComponent(applog.ComponentHTTP),
		localeRouting:   !i18n.Inactive(deps.LocaleMatcher),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	router, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() (chi.Router, error) {
	r := chi.NewRouter()

	s.trace = trace.NewMiddleware(s.deps.Logger, s.deps.Detector.ClientIP)
	r.Use(s.trace.Handler)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.deps.Detector.Middleware)
	r.Use(s.deps.Limiter.Middleware(s.deps.Detector.ClientIP, s.handleRateLimited))
	r.Use(i18n.NewMiddleware(s.deps.LocaleMatcher, http.HandlerFunc(s.handleNotFound)).Handler)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	r.With(security.StaticCache(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleIndex)
	r.Get("/dashboard", s.handleDashboardPage)
	r.Get("/settings", s.handleSettingsPage)
	r.Post("/settings", s.handleSettingsSubmit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleAPIDashboard)
		r.Get("/finance/{operation}", s.handleAPIFinance)
		r.Get("/locale/resolve", s.handleAPILocale)
	})

	r.NotFound(s.handleNotFound)
	return r, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server",
			applog.FieldOperation, applog.OpStartup,
			"addr", s.Addr,
			"locale_routing", s.localeRouting)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Graceful shutdown failed", applog.FieldError, err.Error())
		return errors.Join(err, s.Close())
	}
	return nil
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", applog.FieldClientIP, s.deps.Detector.ClientIP(r))
	if isAPI(r) {
		JSONError(http.StatusTooManyRequests, "rate limit exceeded", nil).Write(w)
		return
	}
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		NotFoundError("not found").Write(w)
		return
	}
	s.renderError(w, r, http.StatusNotFound, i18n.KeyErrorNotFound)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	target := i18n.Localize(i18n.LocaleOf(r.Context()), "/dashboard")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// healthStatus is the /healthz body: liveness plus the middleware counters.
type healthStatus struct {
	Status             string `json:"status"`
	RequestsTotal      int64  `json:"requests_total"`
	ServerErrors       int64  `json:"server_errors"`
	RateLimited        int64  `json:"rate_limited"`
	RateLimitClients   int    `json:"rate_limit_clients"`
	SuspiciousRequests int64  `json:"suspicious_requests"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	m := s.trace.Metrics()
	NewResponse().JSON(healthStatus{
		Status:             "ok",
		RequestsTotal:      m.TotalRequests,
		ServerErrors:       m.ServerErrors,
		RateLimited:        s.deps.Limiter.Rejected(),
		RateLimitClients:   s.deps.Limiter.ActiveClients(),
		SuspiciousRequests: s.deps.Detector.SuspiciousCount(),
	}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
			NewResponse().Status(http.StatusServiceUnavailable).
				JSON(map[string]string{"status": "unavailable"}).Write(w)
			return
		}
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}
