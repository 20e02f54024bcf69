package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

// NotFoundJSONHandler eşleşmeyen route'lar için JSON 404
func NotFoundJSONHandler(config *errors.ErrorConfig) http.HandlerFunc {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("client_ip", utils.GetClientIP(r)).
			Msg("404 Not Found")
		sendErrorResponse(w, r, http.StatusNotFound, getErrorMessage(http.StatusNotFound, config), config, "")
	}
}

// MethodNotAllowedJSONHandler route var ama metod desteklenmiyor
func MethodNotAllowedJSONHandler(config *errors.ErrorConfig) http.HandlerFunc {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("client_ip", utils.GetClientIP(r)).
			Msg("405 Method Not Allowed")
		sendErrorResponse(w, r, http.StatusMethodNotAllowed, getErrorMessage(http.StatusMethodNotAllowed, config), config, "")
	}
}
