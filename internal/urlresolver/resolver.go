// Package urlresolver çalışılan ortama göre mutlak base URL'yi belirler.
package urlresolver

import "strings"

const (
	// DevelopmentOrigin development build'de her zaman kullanılan origin
	DevelopmentOrigin = "http://localhost:3000"

	// ProductionOrigin override verilmemişse production'da kullanılan domain
	ProductionOrigin = "https://admin.activitydesk.io"
)

// Environment base URL kararını etkileyen ortam bilgisi
type Environment struct {
	Development bool   // APP_ENV=development
	Override    string // PUBLIC_BASE_URL
}

// Resolve base URL'yi döner. Her çağrıda yeniden hesaplanır, cache yok.
// Development'ta override değeri dikkate alınmaz.
func Resolve(env Environment) string {
	if env.Development {
		return DevelopmentOrigin
	}

	if override := strings.TrimSpace(env.Override); override != "" {
		return strings.TrimRight(override, "/")
	}

	return ProductionOrigin
}

// Absolute verilen path'i base URL ile birleştirir
func Absolute(env Environment, path string) string {
	base := Resolve(env)
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
