package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/middleware"
	apierrors "github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/middleware/validation"
	"github.com/onerilhan/go-activity-dashboard/internal/templates"
)

// RouterConfig router'ın ihtiyaç duyduğu handler ve middleware ayarları.
// nil alanlar varsayılanlarla doldurulur.
type RouterConfig struct {
	Dashboard  *DashboardHandler
	Health     *HealthHandler
	Metrics    *middleware.MetricsCollector
	RateLimit  *middleware.RateLimitMiddleware
	CORS       *middleware.CORSConfig
	Security   *middleware.SecurityConfig
	Validation *validation.Config
	Errors     *apierrors.ErrorConfig
	Logging    *middleware.LoggingConfig
}

// NewRouter Gorilla Mux router'ını ve middleware zincirini kurar.
// Zincir (dıştan içe): logging, panic recovery, security, CORS, rate limit,
// router (metrics, validation).
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = middleware.NewMetricsCollector(nil)
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = middleware.NewRateLimitMiddleware(ctx, nil)
	}
	if cfg.Errors == nil {
		cfg.Errors = apierrors.DefaultErrorConfig()
	}

	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundJSONHandler(cfg.Errors)
	router.MethodNotAllowedHandler = middleware.MethodNotAllowedJSONHandler(cfg.Errors)

	router.Use(cfg.Metrics.Middleware)
	router.Use(validation.Middleware(cfg.Validation))

	// Operasyonel endpoint'ler
	if cfg.Health != nil {
		router.HandleFunc("/health", cfg.Health.Health).Methods(http.MethodGet)
	}
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/debug/metrics", cfg.Metrics.Handler).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(templates.Static()).Methods(http.MethodGet, http.MethodHead)

	// Dashboard sayfaları
	router.Handle("/", http.RedirectHandler("/activities", http.StatusFound)).Methods(http.MethodGet)
	activities := router.PathPrefix("/activities").Subrouter()
	activities.HandleFunc("", cfg.Dashboard.Page).Methods(http.MethodGet)
	activities.HandleFunc("/export", cfg.Dashboard.Export).Methods(http.MethodGet)
	activities.HandleFunc("/purge/confirm", cfg.Dashboard.PurgeConfirm).Methods(http.MethodGet)
	activities.HandleFunc("/purge", cfg.Dashboard.Purge).Methods(http.MethodPost)

	// JSON API
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/activities/dashboard", cfg.Dashboard.DashboardJSON).Methods(http.MethodGet)

	router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error { //nolint:errcheck
		if tpl, err := route.GetPathTemplate(); err == nil {
			methods, _ := route.GetMethods()
			log.Debug().Str("path", tpl).Strs("methods", methods).Msg("📍 Route registered")
		}
		return nil
	})

	var handler http.Handler = router
	handler = cfg.RateLimit.Handler()(handler)
	if cfg.CORS != nil {
		handler = middleware.CORSMiddleware(cfg.CORS)(handler)
	}
	handler = middleware.SecurityHeadersMiddleware(cfg.Security)(handler)
	handler = middleware.ErrorHandlingMiddleware(cfg.Errors)(handler)
	handler = middleware.RequestLoggingMiddleware(cfg.Logging)(handler)

	return handler
}
