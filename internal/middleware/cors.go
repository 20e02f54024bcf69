package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/urlresolver"
)

// CORSConfig CORS middleware ayarları
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// NewCORSConfig dashboard origin'i ve ek origin'lerle CORS ayarı üretir.
// Dashboard sadece okuma ve purge formu sunduğu için GET/POST yeterli.
func NewCORSConfig(env urlresolver.Environment, extraOrigins []string) *CORSConfig {
	origins := []string{urlresolver.Resolve(env)}
	for _, o := range extraOrigins {
		if o != "" && !contains(origins, o) {
			origins = append(origins, o)
		}
	}

	maxAge := 3600
	if env.Development {
		maxAge = 86400
	}

	return &CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         maxAge,
	}
}

// CORSMiddleware izinli origin'lere CORS header'larını ekler ve preflight'ı cevaplar
func CORSMiddleware(config *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && isAllowedOrigin(origin, config.AllowedOrigins)

			w.Header().Add("Vary", "Origin")

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				log.Debug().
					Str("origin", origin).
					Bool("allowed", allowed).
					Str("method", r.Header.Get("Access-Control-Request-Method")).
					Msg("CORS preflight request handled")

				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isAllowedOrigin tam eşleşme veya *.domain.com wildcard
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == origin {
			return true
		}
		if domain, ok := strings.CutPrefix(allowedOrigin, "*."); ok {
			if strings.HasSuffix(origin, "."+domain) {
				return true
			}
		}
	}
	return false
}
