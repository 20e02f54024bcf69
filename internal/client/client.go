// Package client upstream audit-log REST API'si için typed HTTP client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/onerilhan/go-activity-dashboard/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Client audit API client'ı
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	// aynı anda gelen özdeş GET isteklerini tek upstream çağrısına indirir
	reads singleflight.Group
}

// Option Client'ı yapılandırır
type Option func(*Client)

// WithHTTPClient özel HTTP client kullanır
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout HTTP client timeout'unu ayarlar
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit upstream'e giden istekleri saniyede rps ile sınırlar
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New verilen base URL için client oluşturur (örn. "http://localhost:5000/api")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do HTTP isteğini çalıştırır ve ham cevap gövdesini döner
func (c *Client) do(ctx context.Context, endpoint, method, path string, body any) ([]byte, error) {
	start := time.Now()
	respBody, err := c.send(ctx, method, path, body)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()

	if err != nil {
		log.Debug().Err(err).Str("endpoint", endpoint).Str("method", method).Msg("Upstream isteği başarısız")
	}
	return respBody, err
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// get query parametreli GET isteği. Eşzamanlı özdeş istekler paylaşılır.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	// paylaşılan çağrı hiçbir bekleyenin iptaline bağlı değil, süresini
	// client timeout'u sınırlar. Her bekleyen sadece kendi ctx'i ile düşer.
	ch := c.reads.DoChan(path, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout())
		defer cancel()
		return c.do(flightCtx, endpoint, http.MethodGet, path, nil)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("upstream cevabı beklenirken: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("path", path).Msg("Upstream cevabı paylaşıldı")
		}
		return res.Val.([]byte), nil
	}
}

// flightTimeout paylaşılan GET çağrısının üst süre sınırı
func (c *Client) flightTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return defaultTimeout
}

// post JSON body'li POST isteği
func (c *Client) post(ctx context.Context, endpoint, path string, body any) ([]byte, error) {
	return c.do(ctx, endpoint, http.MethodPost, path, body)
}

// decode JSON gövdeyi result'a çözer
func decode(body []byte, result any) error {
	if len(body) == 0 {
		return ErrUnexpectedShape
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
