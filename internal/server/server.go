// Package server exposes requirement analysis and quoting over HTTP.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/deal-desk/internal/config"
	"github.com/sells-group/deal-desk/internal/desk"
	"github.com/sells-group/deal-desk/internal/document"
	"github.com/sells-group/deal-desk/internal/metrics"
	"github.com/sells-group/deal-desk/internal/model"
	"github.com/sells-group/deal-desk/internal/requirements"
)

// Analyzer builds requirement reports.
type Analyzer interface {
	Analyze(ctx context.Context, in requirements.Input) (*model.RequirementReport, error)
}

// Quoter generates and looks up deal quotes.
type Quoter interface {
	Generate(ctx context.Context, req model.QuoteRequest) (model.DealState, error)
	Insights(dealID string) (model.DealState, error)
}

// Extractor converts uploads to text.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, document.Kind, error)
}

// Deps are the services behind the handlers.
type Deps struct {
	Analyzer  Analyzer
	Quotes    Quoter
	Documents Extractor
	Stats     func() desk.Stats
}

// FromDesk wires handler dependencies from a loaded desk.
func FromDesk(d *desk.Desk) Deps {
	return Deps{Analyzer: d.Analyzer, Quotes: d.Quotes, Documents: d.Documents, Stats: d.Stats}
}

type handler struct {
	deps   Deps
	upload config.UploadConfig
}

// New returns the HTTP handler for every route.
func New(deps Deps, srv config.ServerConfig, upload config.UploadConfig) http.Handler {
	if upload.MaxBytes <= 0 {
		upload.MaxBytes = 20 << 20
	}
	h := &handler{deps: deps, upload: upload}

	origins := srv.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/analyze", func(r chi.Router) {
		r.Post("/text", h.analyzeText)
		r.Post("/file", h.analyzeFile)
		r.Get("/debug/store", h.debugStore)
	})

	r.Route("/quote", func(r chi.Router) {
		r.Post("/generate", h.generateQuote)
		r.Post("/reprice", h.generateQuote)
		r.Get("/insights/{dealID}", h.insights)
	})

	return r
}

// observe records request duration by route pattern and logs each request.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
