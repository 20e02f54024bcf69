package utils

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetClientIP gerçek client IP'sini alır (proxy, load balancer desteği ile)
func GetClientIP(r *http.Request) string {
	// chain'deki ilk IP gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if cfIP := r.Header.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IntParam query parametresini int olarak okur. Yoksa, parse edilemezse veya
// minValue'dan küçükse def döner.
func IntParam(values url.Values, key string, def, minValue int) int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < minValue {
		return def
	}
	return n
}
