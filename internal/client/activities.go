package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/models"
)

// ListActivities GET /activities. Cevap iki farklı zarf formatında gelebilir,
// normalizeActivityPage ile tek tipe çevrilir.
func (c *Client) ListActivities(ctx context.Context, q models.ActivityQuery) (*models.ActivityPage, error) {
	params := url.Values{}
	for key, value := range q.Values() {
		params.Set(key, value)
	}

	body, err := c.get(ctx, "activities", "/activities", params)
	if err != nil {
		return nil, err
	}

	page, ok := normalizeActivityPage(body)
	if !ok {
		log.Warn().Int("body_size", len(body)).Msg("Aktivite cevabı beklenmeyen formatta, boş liste kullanılıyor")
	}
	return page, nil
}

// GetStats GET /activities/stats?days=n. Stats objesi doğrudan gövdede gelir.
func (c *Client) GetStats(ctx context.Context, days int) (*models.Stats, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	body, err := c.get(ctx, "activities_stats", "/activities/stats", params)
	if err != nil {
		return nil, err
	}

	var stats models.Stats
	if err := decode(body, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExportCSV GET /activities/export/csv?days=n. Gövde opak CSV verisidir.
func (c *Client) ExportCSV(ctx context.Context, days int) ([]byte, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	// export paylaşılmaz, her tıklama ayrı dosya üretir
	body, err := c.do(ctx, "activities_export", http.MethodGet, "/activities/export/csv?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetPurgeStatus GET /log-purge/status -> { data: LogPurgeStatus }
func (c *Client) GetPurgeStatus(ctx context.Context) (*models.LogPurgeStatus, error) {
	body, err := c.get(ctx, "log_purge_status", "/log-purge/status", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data *models.LogPurgeStatus `json:"data"`
	}
	if err := decode(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("purge status: %w", ErrUnexpectedShape)
	}
	return envelope.Data, nil
}

// ManualPurge POST /log-purge/manual {daysOld}. success:false cevabı hata
// değildir, çağıran PurgeResult.Success'i kontrol eder.
func (c *Client) ManualPurge(ctx context.Context, daysOld int) (*models.PurgeResult, error) {
	body, err := c.post(ctx, "log_purge_manual", "/log-purge/manual", models.PurgeRequest{DaysOld: daysOld})
	if err != nil {
		return nil, err
	}

	var result models.PurgeResult
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
