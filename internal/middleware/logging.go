package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

type contextKey string

// RequestIDKey request id'nin context key'i
const RequestIDKey contextKey = "request_id"

// responseWriter status ve boyutu yakalar
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.responseSize += int64(size)
	return size, err
}

// LoggingConfig logging middleware ayarları
type LoggingConfig struct {
	SkipPaths []string // log'lanmayacak path'ler, sonda * prefix eşleşmesi
}

// DefaultLoggingConfig varsayılan logging ayarları
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SkipPaths: []string{"/health", "/metrics", "/favicon.ico", "/static/*"},
	}
}

// RequestLoggingMiddleware her isteğe uuid request id atar, bunu header'a ve
// context'teki zerolog logger'a ekler, tamamlanan isteği loglar.
func RequestLoggingMiddleware(config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)

			logger := log.With().Str("request_id", requestID).Logger()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = logger.WithContext(ctx)
			r = r.WithContext(ctx)

			if shouldSkipLogging(r.URL.Path, config.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			var event *zerolog.Event
			switch {
			case wrapped.statusCode >= 500:
				event = logger.Error()
			case wrapped.statusCode >= 400:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Str("client_ip", utils.GetClientIP(r)).
				Str("user_agent", r.Header.Get("User-Agent")).
				Int("status_code", wrapped.statusCode).
				Int64("response_size", wrapped.responseSize).
				Float64("duration_ms", float64(duration.Nanoseconds())/1e6).
				Msg("Request completed")
		})
	}
}

// RequestIDFromContext middleware'in atadığı request id
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func shouldSkipLogging(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if path == skipPath {
			return true
		}
		if prefix, ok := strings.CutSuffix(skipPath, "*"); ok && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
