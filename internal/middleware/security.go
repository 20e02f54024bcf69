package middleware

import (
	"fmt"
	"net/http"
)

// SecurityConfig security header ayarları
type SecurityConfig struct {
	ContentSecurityPolicy string

	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string

	CustomHeaders map[string]string
}

// DefaultSecurityConfig dashboard sayfaları inline script içermez.
// Stiller embed edilmiş /static altından gelir.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		ContentSecurityPolicy: "default-src 'self'; script-src 'none'; style-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'self'",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "same-origin",
		CustomHeaders: map[string]string{
			"X-Permitted-Cross-Domain-Policies": "none",
		},
	}
}

// DevelopmentSecurityConfig HTTP üzerinden çalışabilmek için HSTS kapalı
func DevelopmentSecurityConfig() *SecurityConfig {
	config := DefaultSecurityConfig()
	config.HSTSMaxAge = 0
	config.HSTSIncludeSubdomains = false
	return config
}

// SecurityHeadersMiddleware güvenlik header'larını ekler
func SecurityHeadersMiddleware(config *SecurityConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	// header seti her istekte aynı, bir kez hesaplanır
	headers := map[string]string{}
	if config.ContentSecurityPolicy != "" {
		headers["Content-Security-Policy"] = config.ContentSecurityPolicy
	}
	if config.HSTSMaxAge > 0 {
		headers["Strict-Transport-Security"] = formatHSTSHeader(config.HSTSMaxAge, config.HSTSIncludeSubdomains)
	}
	if config.FrameOptions != "" {
		headers["X-Frame-Options"] = config.FrameOptions
	}
	if config.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if config.ReferrerPolicy != "" {
		headers["Referrer-Policy"] = config.ReferrerPolicy
	}
	for key, value := range config.CustomHeaders {
		headers[key] = value
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for key, value := range headers {
				w.Header().Set(key, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formatHSTSHeader(maxAge int, includeSubdomains bool) string {
	hsts := fmt.Sprintf("max-age=%d", maxAge)
	if includeSubdomains {
		hsts += "; includeSubDomains"
	}
	return hsts
}
