package main

import (
	"context"
	stdlog "log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/client"
	"github.com/onerilhan/go-activity-dashboard/internal/config"
	"github.com/onerilhan/go-activity-dashboard/internal/handlers"
	"github.com/onerilhan/go-activity-dashboard/internal/logger"
	"github.com/onerilhan/go-activity-dashboard/internal/middleware"
	apierrors "github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/middleware/validation"
	"github.com/onerilhan/go-activity-dashboard/internal/templates"
	"github.com/onerilhan/go-activity-dashboard/internal/urlresolver"
)

var version = "dev"

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	// config yükle
	cfg := config.LoadConfig()

	// logger başlat
	logger.Init(cfg.AppEnv)

	urlEnv := cfg.URLEnvironment()
	log.Info().
		Str("environment", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("upstream", cfg.APIBaseURL).
		Str("public_url", urlresolver.Resolve(urlEnv)).
		Msg("🚀 Activity Dashboard başlatıldı")

	// Upstream audit API client
	api := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithRateLimit(cfg.APIRatePerSecond, cfg.APIBurst),
	)

	renderer, err := templates.New(urlEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Template'ler yüklenemedi")
	}

	errConfig := apierrors.ConfigFor(cfg.AppEnv)

	// Arka plan işleri (rate limiter temizliği) bu context ile durur
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := handlers.NewRouter(ctx, handlers.RouterConfig{
		Dashboard:  handlers.NewDashboardHandler(api, renderer, errConfig),
		Health:     handlers.NewHealthHandler(api, version),
		Metrics:    middleware.NewMetricsCollector(nil),
		RateLimit:  middleware.NewRateLimitMiddleware(ctx, nil),
		CORS:       middleware.NewCORSConfig(urlEnv, cfg.CORSAllowedOrigins),
		Security:   securityConfig(cfg),
		Validation: validationConfig(urlEnv),
		Errors:     errConfig,
	})

	// HTTP Server configuration
	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown setup
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info().
			Str("addr", serverAddr).
			Int("read_timeout", 15).
			Int("write_timeout", 30).
			Int("idle_timeout", 60).
			Msg("🌐 HTTP Server (Gorilla Mux) başlatıldı")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Server başlatma hatası")
		}
	}()

	<-shutdown
	log.Info().Msg("🛑 Shutdown signal alındı, server kapatılıyor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// 1. HTTP Server'ı kapat (aktif bağlantıları, devam eden purge'ü bekle)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP Server kapatma hatası")
	} else {
		log.Info().Msg("✅ HTTP Server başarıyla kapatıldı")
	}

	// 2. Arka plan işlerini durdur
	cancel()

	log.Info().Msg("👋 Activity Dashboard başarıyla kapatıldı")
}

func securityConfig(cfg *config.Config) *middleware.SecurityConfig {
	if cfg.IsDevelopment() {
		return middleware.DevelopmentSecurityConfig()
	}
	return middleware.DefaultSecurityConfig()
}

// validationConfig purge formu sadece dashboard'un kendi origin'inden kabul edilir
func validationConfig(env urlresolver.Environment) *validation.Config {
	vc := validation.DefaultConfig()
	if u, err := url.Parse(urlresolver.Resolve(env)); err == nil && u.Host != "" {
		vc.TrustedHosts = []string{u.Host}
	}
	return vc
}
