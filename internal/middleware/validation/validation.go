// internal/middleware/validation/validation.go
package validation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

// Config validation middleware ayarları
type Config struct {
	MaxBodySize    int64           // POST body üst sınırı (bytes)
	MaxParamSize   int             // tek parametre üst sınırı
	AllowedMethods []string        // izin verilen HTTP metodları
	ContentTypes   []string        // POST için izin verilen content type'lar
	QueryRules     map[string]Rule // query/form parametre kuralları
	TrustedHosts   []string        // POST için Origin/Referer host'ları, boşsa kontrol yok
	SQLInjection   bool
	XSSProtection  bool
}

// DefaultConfig dashboard route'ları için varsayılan ayarlar. Sayısal
// parametreler burada doğrulanmaz, handler geçersiz değerde varsayılana düşer.
func DefaultConfig() *Config {
	return &Config{
		MaxBodySize:    16 * 1024,
		MaxParamSize:   256,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		ContentTypes:   []string{"application/x-www-form-urlencoded", "application/json"},
		QueryRules: map[string]Rule{
			"entityType": RuleIdentifier,
			"action":     RuleIdentifier,
			"userId":     RuleIdentifier,
			"confirm":    RuleIdentifier,
		},
		SQLInjection:  true,
		XSSProtection: true,
	}
}

// Middleware ihlalde errors.ValidationError ile panic eder,
// ErrorHandlingMiddleware bunu JSON cevaba çevirir.
func Middleware(config *Config) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if err := ValidateMethod(r, config.AllowedMethods); err != nil {
				panic(&errors.ValidationError{
					Message:    err.Error(),
					StatusCode: http.StatusMethodNotAllowed,
					Field:      "method",
					Value:      r.Method,
				})
			}

			if r.Method == http.MethodPost {
				if err := validateBody(r, config); err != nil {
					panic(&errors.ValidationError{
						Message: err.Error(),
						Field:   "content",
						Value:   r.Header.Get("Content-Type"),
					})
				}

				if err := ValidateReferer(r, config.TrustedHosts); err != nil {
					log.Warn().
						Str("client_ip", utils.GetClientIP(r)).
						Str("origin", r.Header.Get("Origin")).
						Str("referer", r.Header.Get("Referer")).
						Msg("Cross-site POST reddedildi")
					panic(&errors.ValidationError{
						Message:    "İstek kaynağı doğrulanamadı",
						StatusCode: http.StatusForbidden,
						Field:      "origin",
					})
				}
			}

			if err := ValidateParameters(r, config.QueryRules); err != nil {
				panic(&errors.ValidationError{
					Message: err.Error(),
					Field:   "query",
				})
			}

			if err := ValidateSecurity(r, config); err != nil {
				log.Warn().
					Str("client_ip", utils.GetClientIP(r)).
					Str("path", r.URL.Path).
					Err(err).
					Msg("Security threat detected")

				panic(&errors.ValidationError{
					Message: "Güvenlik ihlali tespit edildi",
					Field:   "security",
					Value:   "security_threat_detected",
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateMethod HTTP methodunu doğrular
func ValidateMethod(r *http.Request, allowedMethods []string) error {
	for _, method := range allowedMethods {
		if r.Method == method {
			return nil
		}
	}
	return fmt.Errorf("HTTP method '%s' desteklenmiyor. İzin verilen metodlar: %s",
		r.Method, strings.Join(allowedMethods, ", "))
}

// validateBody content type ve boyut kontrolü. Body MaxBytesReader ile sarılır.
func validateBody(r *http.Request, config *Config) error {
	if r.ContentLength > config.MaxBodySize {
		return fmt.Errorf("request body çok büyük. Maksimum boyut: %d bytes", config.MaxBodySize)
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" && r.ContentLength <= 0 {
		return nil
	}

	allowed := false
	for _, t := range config.ContentTypes {
		if strings.HasPrefix(contentType, t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("desteklenmeyen Content-Type: %s. İzin verilen tipler: %s",
			contentType, strings.Join(config.ContentTypes, ", "))
	}

	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodySize)
	return nil
}
