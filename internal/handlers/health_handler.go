package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/onerilhan/go-activity-dashboard/internal/interfaces"
)

// HealthHandler liveness ve upstream erişilebilirliği
type HealthHandler struct {
	api     interfaces.ActivityAPIInterface
	version string
	started time.Time
}

// NewHealthHandler yeni health handler
func NewHealthHandler(api interfaces.ActivityAPIInterface, version string) *HealthHandler {
	return &HealthHandler{api: api, version: version, started: time.Now()}
}

type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime"`
}

// Health GET /health. Upstream'e ulaşılamazsa 200 ile "degraded" döner,
// dashboard hata panelleriyle çalışmaya devam edebilir.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Upstream: "ok",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.api.GetPurgeStatus(ctx); err != nil {
		resp.Status = "degraded"
		resp.Upstream = "unreachable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}
