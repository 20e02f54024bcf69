package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/metrics"
)

// MetricsConfig metrics middleware ayarları
type MetricsConfig struct {
	SlowRequestThreshold time.Duration
	MaxStoredResponse    int // route başına saklanan son süre sayısı
}

// DefaultMetricsConfig varsayılan ayarlar
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		SlowRequestThreshold: 2 * time.Second,
		MaxStoredResponse:    100,
	}
}

// MetricsSnapshot /debug/metrics cevabı
type MetricsSnapshot struct {
	TotalRequests       int64                       `json:"total_requests"`
	ActiveRequests      int64                       `json:"active_requests"`
	SlowRequests        int64                       `json:"slow_requests"`
	MemoryUsage         uint64                      `json:"memory_usage_bytes"`
	Goroutines          int                         `json:"goroutines"`
	StatusCodeCounts    map[int]int64               `json:"status_code_counts"`
	RouteCounts         map[string]int64            `json:"route_counts"`
	ResponseTimeSummary map[string]ResponseTimeStat `json:"response_time_summary"`
	LastUpdated         time.Time                   `json:"last_updated"`
}

// ResponseTimeStat route bazlı süre özeti
type ResponseTimeStat struct {
	Count   int           `json:"count"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
	P95     time.Duration `json:"p95"`
}

// MetricsCollector in-memory sayaçları tutar ve her isteği Prometheus'a da yazar
type MetricsCollector struct {
	config *MetricsConfig

	mutex            sync.Mutex
	totalRequests    int64
	activeRequests   int64
	slowRequests     int64
	statusCodeCounts map[int]int64
	routeCounts      map[string]int64
	responseTimes    map[string][]time.Duration
}

// NewMetricsCollector yeni collector oluşturur
func NewMetricsCollector(config *MetricsConfig) *MetricsCollector {
	if config == nil {
		config = DefaultMetricsConfig()
	}
	return &MetricsCollector{
		config:           config,
		statusCodeCounts: make(map[int]int64),
		routeCounts:      make(map[string]int64),
		responseTimes:    make(map[string][]time.Duration),
	}
}

// metricsResponseWriter status code'u yakalar
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	mrw.statusCode = code
	mrw.ResponseWriter.WriteHeader(code)
}

// Middleware router'a eklenir (mux.Router.Use), route template label olarak kullanılır
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeLabel(r)
		start := time.Now()

		mc.mutex.Lock()
		mc.totalRequests++
		mc.activeRequests++
		mc.routeCounts[route]++
		mc.mutex.Unlock()

		wrapped := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)

		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()

		mc.mutex.Lock()
		mc.activeRequests--
		mc.statusCodeCounts[wrapped.statusCode]++

		times := append(mc.responseTimes[route], elapsed)
		if len(times) > mc.config.MaxStoredResponse {
			times = times[len(times)-mc.config.MaxStoredResponse:]
		}
		mc.responseTimes[route] = times

		slow := elapsed > mc.config.SlowRequestThreshold
		if slow {
			mc.slowRequests++
		}
		mc.mutex.Unlock()

		if slow {
			log.Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("response_time", elapsed).
				Msg("🐢 Slow request detected")
		}
	})
}

// Handler /debug/metrics JSON snapshot'ı
func (mc *MetricsCollector) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mc.Snapshot()); err != nil {
		log.Error().Err(err).Msg("Metrics snapshot encode edilemedi")
	}
}

// Snapshot sayaçların kopyası
func (mc *MetricsCollector) Snapshot() *MetricsSnapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	summary := make(map[string]ResponseTimeStat, len(mc.responseTimes))
	for route, times := range mc.responseTimes {
		if len(times) > 0 {
			summary[route] = summarize(times)
		}
	}

	statusCounts := make(map[int]int64, len(mc.statusCodeCounts))
	for k, v := range mc.statusCodeCounts {
		statusCounts[k] = v
	}
	routeCounts := make(map[string]int64, len(mc.routeCounts))
	for k, v := range mc.routeCounts {
		routeCounts[k] = v
	}

	return &MetricsSnapshot{
		TotalRequests:       mc.totalRequests,
		ActiveRequests:      mc.activeRequests,
		SlowRequests:        mc.slowRequests,
		MemoryUsage:         mem.Alloc,
		Goroutines:          runtime.NumGoroutine(),
		StatusCodeCounts:    statusCounts,
		RouteCounts:         routeCounts,
		ResponseTimeSummary: summary,
		LastUpdated:         time.Now(),
	}
}

// routeLabel Prometheus cardinality'si için path yerine route template
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func summarize(times []time.Duration) ResponseTimeStat {
	sorted := slices.Clone(times)
	slices.Sort(sorted)

	var total time.Duration
	for _, t := range sorted {
		total += t
	}

	idx := int(float64(len(sorted))*0.95 + 0.5)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return ResponseTimeStat{
		Count:   len(sorted),
		Average: total / time.Duration(len(sorted)),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		P95:     sorted[idx],
	}
}
