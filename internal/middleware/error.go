package middleware

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

// ErrorHandlingMiddleware panic'leri yakalar ve JSON hata cevabına çevirir.
// errors.APIError ile panic edilirse onun status kodu kullanılır.
func ErrorHandlingMiddleware(config *errors.ErrorConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				// http.ErrAbortHandler net/http'nin kendi sinyali
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				if apiErr, ok := recovered.(errors.APIError); ok {
					logAPIError(apiErr, r)
					clearHeaders(w, config)
					sendErrorResponse(w, r, apiErr.Status(), apiErr.Error(), config, "")
					return
				}

				info := &errors.PanicInfo{
					Value:     recovered,
					Stack:     string(debug.Stack()),
					RequestID: w.Header().Get("X-Request-ID"),
					Method:    r.Method,
					Path:      r.URL.Path,
					ClientIP:  utils.GetClientIP(r),
					Timestamp: time.Now(),
				}
				logPanic(info, config)

				clearHeaders(w, config)
				sendErrorResponse(w, r, http.StatusInternalServerError, getErrorMessage(http.StatusInternalServerError, config), config, info.Stack)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteError handler'ların döndüğü hatayı JSON olarak yazar.
// APIError değilse 500 kabul edilir ve iç mesaj gizlenir.
func WriteError(w http.ResponseWriter, r *http.Request, err error, config *errors.ErrorConfig) {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}

	var apiErr errors.APIError
	if stderrors.As(err, &apiErr) {
		logAPIError(apiErr, r)
		sendErrorResponse(w, r, apiErr.Status(), apiErr.Error(), config, "")
		return
	}

	log.Error().Err(err).Str("path", r.URL.Path).Msg("Beklenmeyen handler hatası")
	sendErrorResponse(w, r, http.StatusInternalServerError, getErrorMessage(http.StatusInternalServerError, config), config, "")
}

// clearHeaders panic öncesi yazılmış header'ları temizler
func clearHeaders(w http.ResponseWriter, config *errors.ErrorConfig) {
	for key := range w.Header() {
		if !contains(config.IncludeHeaders, key) {
			w.Header().Del(key)
		}
	}
}

func sendErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string, config *errors.ErrorConfig, stack string) {
	response := errors.ErrorResponse{
		Success:   false,
		Error:     truncateString(message, config.MaxErrorLength),
		Code:      statusCode,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
		Details: map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		},
	}

	if config.ShowStackTrace && stack != "" {
		response.Stack = stack
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Str("request_id", response.RequestID).Msg("Error response JSON encoding failed")
	}
}

// getErrorMessage status koduna göre kullanıcı mesajı
func getErrorMessage(statusCode int, config *errors.ErrorConfig) string {
	if msg, ok := config.CustomErrorMap[statusCode]; ok {
		return msg
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP Error %d", statusCode)
}

func logAPIError(err errors.APIError, r *http.Request) {
	event := log.Warn()
	if err.Status() >= 500 {
		event = log.Error()
	}
	event = event.
		Str("error_message", err.Error()).
		Int("status_code", err.Status()).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("client_ip", utils.GetClientIP(r))

	switch e := err.(type) {
	case *errors.ValidationError:
		event.Str("category", "validation").Str("field", e.Field).Interface("value", e.Value).Msg("Validation failed")
	case *errors.UpstreamError:
		event.Str("category", "upstream").Str("endpoint", e.Endpoint).Msg("Upstream request failed")
	case *errors.ConflictError:
		event.Str("category", "conflict").Str("resource", e.Resource).Msg("Conflicting request")
	default:
		event.Str("category", "api_error").Msg("API error occurred")
	}
}

func logPanic(info *errors.PanicInfo, config *errors.ErrorConfig) {
	event := log.Error().
		Str("type", "panic").
		Str("request_id", info.RequestID).
		Str("method", info.Method).
		Str("path", info.Path).
		Str("client_ip", info.ClientIP).
		Time("timestamp", info.Timestamp).
		Interface("panic_value", info.Value)

	if config.EnablePanicLogs {
		event.Str("stack_trace", info.Stack)
	}

	event.Msg("🔥 Server panic recovered")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLength int) string {
	if maxLength <= 3 || len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
