package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/onerilhan/go-activity-dashboard/internal/urlresolver"
)

// Config ortam yapılandırmalarını tutar
type Config struct {
	AppEnv string
	Port   string

	// Upstream audit API
	APIBaseURL       string
	APITimeout       time.Duration
	APIRatePerSecond float64
	APIBurst         int

	// Mutlak link üretimi için (urlresolver)
	PublicBaseURL string

	CORSAllowedOrigins []string
}

// yardımcı fonksiyon: ortam değişkeni yoksa default değeri döner
func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// LoadConfig tüm yapılandırmayı yükler.
// Öncelik: ortam değişkeni > configs/config.yaml > default
func LoadConfig() *Config {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(getEnv("CONFIG_FILE", "configs/config.yaml"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("api_base_url", "http://localhost:5000/api")
	v.SetDefault("api_timeout_seconds", 15)
	v.SetDefault("api_rate_per_second", 20.0)
	v.SetDefault("api_burst", 40)
	v.SetDefault("public_base_url", "")
	v.SetDefault("cors_allowed_origins", "")

	// Config dosyası opsiyonel
	if err := v.ReadInConfig(); err != nil {
		log.Debug().Err(err).Msg("Config dosyası bulunamadı, default değerler kullanılıyor")
	}

	return &Config{
		AppEnv:             v.GetString("app_env"),
		Port:               v.GetString("port"),
		APIBaseURL:         strings.TrimRight(v.GetString("api_base_url"), "/"),
		APITimeout:         time.Duration(v.GetInt("api_timeout_seconds")) * time.Second,
		APIRatePerSecond:   v.GetFloat64("api_rate_per_second"),
		APIBurst:           v.GetInt("api_burst"),
		PublicBaseURL:      v.GetString("public_base_url"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}
}

// IsDevelopment development build mi?
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// URLEnvironment urlresolver için ortam bilgisini döner
func (c *Config) URLEnvironment() urlresolver.Environment {
	return urlresolver.Environment{
		Development: c.IsDevelopment(),
		Override:    c.PublicBaseURL,
	}
}

// splitList virgülle ayrılmış listeyi parçalar, boşları atar
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
