// Package http exposes the ledger service as a JSON API for the dashboard.
package http

import (
	"context"
	"net/http"
	"time"

	"ledgerpro/internal/calendar"
	"ledgerpro/internal/core"
	"ledgerpro/internal/log"
	"ledgerpro/internal/middleware/ratelimit"
	"ledgerpro/internal/middleware/security"
	"ledgerpro/internal/report"
	"ledgerpro/internal/services"

	"cloud.google.com/go/civil"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// LedgerAPI is the part of services.LedgerService the handlers call.
type LedgerAPI interface {
	ListLedgers(ctx context.Context) ([]core.Ledger, error)
	AddLedger(ctx context.Context, sess core.Session, name string) (services.Outcome, error)
	DeleteLedger(ctx context.Context, sess core.Session, id int64) (services.Outcome, error)
	ListCategories(ctx context.Context, sess core.Session) ([]string, error)
	AddCategory(ctx context.Context, sess core.Session, name string) (services.Outcome, error)
	DeleteCategory(ctx context.Context, sess core.Session, name string) (services.Outcome, error)
	SaveRecord(ctx context.Context, sess core.Session, r core.Record) (int64, services.Outcome, error)
	DeleteRecord(ctx context.Context, sess core.Session, id int64) (services.Outcome, error)
	ListRecords(ctx context.Context, sess core.Session) ([]core.Record, error)
	ListRecordsInRange(ctx context.Context, sess core.Session, start, end civil.Date) ([]core.Record, error)
	Dashboard(ctx context.Context, sess core.Session, filter report.Criteria) (services.Dashboard, error)
	Calendar(ctx context.Context, sess core.Session, year int, month time.Month, mode calendar.Mode, selected civil.Date) (calendar.Grid, error)
	Report(ctx context.Context, sess core.Session, kind report.Kind, ref civil.Date) (report.Result, error)
	ExportReport(ctx context.Context, sess core.Session, kind report.Kind, ref civil.Date) (services.Export, error)
}

type Options struct {
	CORSOrigins   []string
	DefaultLocale core.Locale
	Logger        *log.Logger

	// RequestsPerMinute per client IP; zero disables rate limiting.
	RequestsPerMinute int
}

type server struct {
	svc    LedgerAPI
	locale core.Locale
	now    func() time.Time
}

// NewServer builds the API server listening on addr. The rate limiter, if
// any, is stopped when the server shuts down.
func NewServer(addr string, svc LedgerAPI, opts Options) *http.Server {
	handler, stop := newRouter(svc, opts)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	srv.RegisterOnShutdown(stop)
	return srv
}

func newRouter(svc LedgerAPI, opts Options) (*gin.Engine, func()) {
	if opts.Logger == nil {
		opts.Logger = log.FromContext(context.Background())
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = core.CN
	}
	s := &server{svc: svc, locale: opts.DefaultLocale, now: time.Now}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.Middleware(opts.Logger))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	stop := func() {}
	if opts.RequestsPerMinute > 0 {
		limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute})
		r.Use(limiter.Middleware())
		stop = limiter.Stop
	}

	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)

	api := r.Group("/api")
	api.GET("/ledgers", s.listLedgers)
	api.POST("/ledgers", s.addLedger)
	api.DELETE("/ledgers/:id", s.deleteLedger)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.addCategory)
	api.DELETE("/categories/:name", s.deleteCategory)

	api.GET("/records", s.listRecords)
	api.POST("/records", s.saveRecord)
	api.DELETE("/records/:id", s.deleteRecord)

	api.GET("/dashboard", s.dashboard)
	api.GET("/calendar", s.calendar)
	api.GET("/reports/:kind", s.report)
	api.GET("/reports/:kind/export", s.exportReport)

	return r, stop
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", ledgerHeader, log.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", log.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyz reports ready once storage answers.
func (s *server) readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if _, err := s.svc.ListLedgers(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
