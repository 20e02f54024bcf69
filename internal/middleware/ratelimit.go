package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

// RateRule dakikadaki istek sayısı ve burst
type RateRule struct {
	RequestsPerMinute int
	Burst             int
}

// RateLimitConfig rate limiting ayarları
type RateLimitConfig struct {
	Default   RateRule
	PathRules map[string]RateRule // "METHOD /path" -> daha sıkı kural
	SkipPaths []string
	IdleTTL   time.Duration // bu süre görülmeyen IP'nin limiter'ı silinir
}

// DefaultRateLimitConfig purge endpoint'i ayrıca sınırlandırılır
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Default: RateRule{RequestsPerMinute: 120, Burst: 20},
		PathRules: map[string]RateRule{
			http.MethodPost + " /activities/purge": {RequestsPerMinute: 6, Burst: 2},
			http.MethodGet + " /activities/export":  {RequestsPerMinute: 20, Burst: 5},
		},
		SkipPaths: []string{"/health", "/metrics"},
		IdleTTL:   30 * time.Minute,
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware IP (ve gerekirse route) başına token bucket
type RateLimitMiddleware struct {
	config   *RateLimitConfig
	limiters map[string]*ipLimiter
	mutex    sync.Mutex
}

// NewRateLimitMiddleware yeni rate limiter oluşturur. Cleanup goroutine'i
// ctx iptal edilince durur.
func NewRateLimitMiddleware(ctx context.Context, config *RateLimitConfig) *RateLimitMiddleware {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rlm := &RateLimitMiddleware{
		config:   config,
		limiters: make(map[string]*ipLimiter),
	}

	go rlm.cleanupLimiters(ctx)

	return rlm
}

// Handler middleware fonksiyonunu döner
func (rlm *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if contains(rlm.config.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := utils.GetClientIP(r)
			ruleKey := r.Method + " " + r.URL.Path
			rule, scoped := rlm.config.PathRules[ruleKey]
			if !scoped {
				rule = rlm.config.Default
				ruleKey = "*"
			}

			allowed, remaining := rlm.allow(clientIP+"|"+ruleKey, rule)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				log.Warn().
					Str("client_ip", clientIP).
					Str("rule", ruleKey).
					Msg("Request blocked - rate limit exceeded")
				rlm.sendRateLimitResponse(w, rule)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rlm *RateLimitMiddleware) allow(key string, rule RateRule) (bool, int) {
	rlm.mutex.Lock()
	defer rlm.mutex.Unlock()

	now := time.Now()
	entry, ok := rlm.limiters[key]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(max(rule.RequestsPerMinute, 1)))
		entry = &ipLimiter{limiter: rate.NewLimiter(every, rule.Burst)}
		rlm.limiters[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

func (rlm *RateLimitMiddleware) sendRateLimitResponse(w http.ResponseWriter, rule RateRule) {
	retryAfter := 60 / max(rule.RequestsPerMinute, 1)
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
		"success":             false,
		"error":               "Rate limit exceeded. Please try again later.",
		"code":                http.StatusTooManyRequests,
		"retry_after_seconds": retryAfter,
	})
}

// cleanupLimiters uzun süre görülmeyen limiter'ları siler
func (rlm *RateLimitMiddleware) cleanupLimiters(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rlm.mutex.Lock()
			now := time.Now()
			for key, entry := range rlm.limiters {
				if now.Sub(entry.lastSeen) > rlm.config.IdleTTL {
					delete(rlm.limiters, key)
				}
			}
			active := len(rlm.limiters)
			rlm.mutex.Unlock()

			log.Debug().Int("active_limiters", active).Msg("Rate limiter cleanup completed")
		}
	}
}
