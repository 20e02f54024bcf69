package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var (
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\bor\b|\band\b)\s+\d+\s*=\s*\d+`),
		regexp.MustCompile(`(?i)union\s+select`),
		regexp.MustCompile(`(?i)drop\s+table`),
		regexp.MustCompile(`(?i)delete\s+from`),
		regexp.MustCompile(`(?i)information_schema`),
		regexp.MustCompile(`(?i);--`),
		regexp.MustCompile(`(?i)waitfor\s+delay`),
	}

	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script[^>]*>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?i)<iframe\b`),
		regexp.MustCompile(`(?i)eval\s*\(`),
	}
)

// ValidateSecurity query parametrelerinde SQL injection ve XSS pattern'leri arar.
// Değerler upstream'e aynen iletildiği için burada filtrelenir.
func ValidateSecurity(r *http.Request, config *Config) error {
	for name, values := range r.URL.Query() {
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if len(value) > config.MaxParamSize {
				return fmt.Errorf("query parameter '%s' too long", name)
			}
			if config.SQLInjection && matchesAny(value, sqlPatterns) {
				return fmt.Errorf("SQL injection detected in '%s'", name)
			}
			if config.XSSProtection && matchesAny(value, xssPatterns) {
				return fmt.Errorf("XSS attack detected in '%s'", name)
			}
		}
	}
	return nil
}

func matchesAny(input string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// ValidateReferer POST isteğinin Origin (yoksa Referer) host'u isteğin kendi
// host'u veya trustedHosts'tan biri mi? Liste boşsa veya iki header da yoksa
// kontrol atlanır.
func ValidateReferer(r *http.Request, trustedHosts []string) error {
	if len(trustedHosts) == 0 {
		return nil
	}

	source := strings.TrimSpace(r.Header.Get("Origin"))
	if source == "" {
		source = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if source == "" {
		return nil
	}

	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid origin format")
	}

	host := strings.ToLower(u.Host)
	if host == strings.ToLower(r.Host) {
		return nil
	}
	for _, trusted := range trustedHosts {
		trusted = strings.ToLower(trusted)
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			return nil
		}
	}
	return fmt.Errorf("origin %q not allowed", host)
}
