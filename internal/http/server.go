// Package http serves the fuel log UI: a dashboard page plus HTMX
// partials for the monthly statistics table and the fill-up list.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fuelog/internal/cache"
	"fuelog/internal/core"
	"fuelog/internal/labels"
	"fuelog/internal/middleware/ratelimit"
	"fuelog/internal/middleware/security"
	"fuelog/internal/middleware/trace"
	"fuelog/internal/report"
	"fuelog/internal/units"
	appweb "fuelog/web"
)

// RecordStore is the record surface the handlers need.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec core.GasRecord) (int64, error)
	DeleteRecord(ctx context.Context, id int64) error
	SetCalculationHidden(ctx context.Context, id int64, hidden bool) error
	MonthRecords(ctx context.Context, year, month int) ([]core.GasRecord, error)
	MonthSummary(ctx context.Context, year, month int) (core.TripSummary, error)
}

type Server struct {
	http.Server
	templates *template.Template
	records   RecordStore
	labels    *labels.Provider
	units     units.Units
	currency  report.CurrencyFormatter

	// Rendered month tables, keyed by year-month. Invalidated whenever
	// a record in that month changes.
	tableCache   *cache.LRU[string]
	cacheManager *cache.Manager
	rateLimiter  *ratelimit.Limiter
	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, templates, and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, store RecordStore, lp *labels.Provider, u units.Units, cur report.CurrencyFormatter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		records:     store,
		labels:      lp,
		units:       u,
		currency:    cur,
		tableCache:  cache.NewLRU[string](100, 5*time.Minute),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		startedAt:   time.Now(),
	}

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.tableCache)
	s.cacheManager.Start(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	limited := s.rateLimiter.Middleware(extractClientIP, nil)

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/records", limited(http.HandlerFunc(s.handleCreateRecord)))
	mux.Handle("/records/delete", limited(http.HandlerFunc(s.handleDeleteRecord)))
	mux.Handle("/records/visibility", limited(http.HandlerFunc(s.handleRecordVisibility)))
	// UI partials
	mux.HandleFunc("/ui/month-stats", s.handleMonthStats)
	mux.HandleFunc("/ui/month-records", s.handleMonthRecords)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(headers.Middleware(mux)),
	}

	return s
}

// Shutdown stops the background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
