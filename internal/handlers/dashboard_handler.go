package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-activity-dashboard/internal/interfaces"
	"github.com/onerilhan/go-activity-dashboard/internal/middleware"
	apierrors "github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/pagination"
	"github.com/onerilhan/go-activity-dashboard/internal/services"
	"github.com/onerilhan/go-activity-dashboard/internal/utils"
)

// Renderer HTML şablon render'ı
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// PageData şablonlara geçilen veri
type PageData struct {
	Title     string
	View      services.DashboardView
	Notices   []Notice
	RequestID string
	Confirm   *ConfirmData
}

// ConfirmData purge onay sayfası
type ConfirmData struct {
	DaysOld  int
	Message  string
	Eligible int
}

// DashboardHandler Activities sayfası HTTP isteklerini yönetir.
// Her istek kendi services.Dashboard'unu kurar, sadece purge kilidi paylaşılır.
type DashboardHandler struct {
	api       interfaces.ActivityAPIInterface
	renderer  Renderer
	errConfig *apierrors.ErrorConfig
	now       func() time.Time

	// aynı anda tek purge. purging, kilit tutulurken render edilen
	// sayfalarda butonları disabled göstermek için
	purgeMu sync.Mutex
	purging atomic.Bool
}

// NewDashboardHandler yeni handler oluşturur
func NewDashboardHandler(api interfaces.ActivityAPIInterface, renderer Renderer, errConfig *apierrors.ErrorConfig) *DashboardHandler {
	if errConfig == nil {
		errConfig = apierrors.DefaultErrorConfig()
	}
	return &DashboardHandler{
		api:       api,
		renderer:  renderer,
		errConfig: errConfig,
		now:       time.Now,
	}
}

// dashboardQuery query string'den filtre ve sayfa bilgisi. Geçersiz sayılar
// varsayılana düşer.
func dashboardQuery(values url.Values) (models.Filters, int, int) {
	filters := models.Filters{
		EntityType: models.NormalizeFilterValue(values.Get(models.FilterEntityType)),
		Action:     models.NormalizeFilterValue(values.Get(models.FilterAction)),
		UserID:     models.NormalizeFilterValue(values.Get(models.FilterUserID)),
		Days:       utils.IntParam(values, models.FilterDays, models.DefaultDays, 1),
	}

	page := utils.IntParam(values, "page", 1, 1)
	limit := utils.IntParam(values, "limit", pagination.DefaultLimit, 1)
	if !pagination.IsAllowedLimit(limit) {
		limit = pagination.DefaultLimit
	}
	return filters, page, limit
}

func (h *DashboardHandler) newDashboard(values url.Values, prompter interfaces.Prompter, downloader interfaces.Downloader, opts ...services.DashboardOption) *services.Dashboard {
	filters, page, limit := dashboardQuery(values)
	opts = append([]services.DashboardOption{
		services.WithFilters(filters),
		services.WithPage(page, limit),
	}, opts...)
	return services.NewDashboard(h.api, prompter, downloader, opts...)
}

// viewDashboard sadece görüntüleme için, süren purge'ü yansıtır
func (h *DashboardHandler) viewDashboard(values url.Values) *services.Dashboard {
	return h.newDashboard(values, noopPrompter{}, noopDownloader{}, services.WithPurging(h.purging.Load()))
}

// Page GET /activities
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	d := h.viewDashboard(r.URL.Query())
	d.Mount(r.Context())

	h.render(w, r, http.StatusOK, "activities.html", PageData{
		Title: "Activity Log",
		View:  d.View(h.now()),
	})
}

// DashboardJSON GET /api/v1/activities/dashboard - sayfanın view modeli
func (h *DashboardHandler) DashboardJSON(w http.ResponseWriter, r *http.Request) {
	d := h.viewDashboard(r.URL.Query())
	d.Mount(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(d.View(h.now())); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Dashboard JSON encode edilemedi")
	}
}

// Export GET /activities/export?days=n - CSV attachment
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	downloader := &responseDownloader{w: w}
	d := h.newDashboard(r.URL.Query(), noopPrompter{}, downloader)

	if err := d.Export(r.Context()); err != nil {
		if downloader.written {
			// header gitti, sadece logla
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("CSV gönderimi yarıda kaldı")
			return
		}
		middleware.WriteError(w, r, &apierrors.UpstreamError{
			Message:  "Aktiviteler export edilemedi",
			Endpoint: "activities_export",
			Cause:    err,
		}, h.errConfig)
	}
}

// PurgeConfirm GET /activities/purge/confirm?daysOld=n - onay sayfası
func (h *DashboardHandler) PurgeConfirm(w http.ResponseWriter, r *http.Request) {
	daysOld, err := strconv.Atoi(r.URL.Query().Get("daysOld"))
	if err != nil || !models.IsPurgeThreshold(daysOld) {
		middleware.WriteError(w, r, &apierrors.ValidationError{
			Message: "daysOld 30 veya 90 olmalı",
			Field:   "daysOld",
			Value:   r.URL.Query().Get("daysOld"),
		}, h.errConfig)
		return
	}

	d := h.newDashboard(nil, noopPrompter{}, noopDownloader{})
	d.FetchPurgeStatus(r.Context())

	eligible := 0
	for _, opt := range d.View(h.now()).PurgeOptions {
		if opt.DaysOld == daysOld {
			eligible = opt.Eligible
		}
	}

	h.render(w, r, http.StatusOK, "purge_confirm.html", PageData{
		Title: "Confirm purge",
		Confirm: &ConfirmData{
			DaysOld:  daysOld,
			Message:  services.PurgeConfirmMessage(daysOld),
			Eligible: eligible,
		},
	})
}

// Purge POST /activities/purge (form: daysOld, confirm=yes)
func (h *DashboardHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, r, &apierrors.ValidationError{Message: "Form okunamadı", Field: "form"}, h.errConfig)
		return
	}

	daysOld, _ := strconv.Atoi(r.PostForm.Get("daysOld"))
	prompter := newFormPrompter(r.PostForm.Get("confirm") == "yes")
	d := h.newDashboard(nil, prompter, noopDownloader{})
	logger := zerolog.Ctx(r.Context())

	if !h.purgeMu.TryLock() {
		logger.Warn().Int("days_old", daysOld).Msg("Devam eden purge varken yeni purge istendi")
		busy := h.viewDashboard(nil)
		busy.Mount(r.Context())
		h.render(w, r, http.StatusConflict, "activities.html", PageData{
			Title:   "Activity Log",
			View:    busy.View(h.now()),
			Notices: []Notice{{Level: "error", Message: "A purge is already in progress. Please wait for it to finish."}},
		})
		return
	}
	defer func() {
		h.purging.Store(false)
		h.purgeMu.Unlock()
	}()

	h.purging.Store(true)
	result, err := d.Purge(r.Context(), daysOld)
	h.purging.Store(false)

	switch {
	case err == nil:
		logger.Info().Int("days_old", daysOld).Int("deleted", result.DeletedCount).Msg("Purge tamamlandı")
		h.render(w, r, http.StatusOK, "activities.html", PageData{
			Title:   "Activity Log",
			View:    d.View(h.now()),
			Notices: prompter.Notices("success"),
		})

	case errors.Is(err, services.ErrPurgeCancelled):
		http.Redirect(w, r, "/activities", http.StatusSeeOther)

	case errors.Is(err, services.ErrInvalidPurgeThreshold):
		middleware.WriteError(w, r, &apierrors.ValidationError{
			Message: "daysOld 30 veya 90 olmalı",
			Field:   "daysOld",
			Value:   r.PostForm.Get("daysOld"),
		}, h.errConfig)

	case errors.Is(err, services.ErrPurgeInProgress):
		middleware.WriteError(w, r, &apierrors.ConflictError{Message: err.Error(), Resource: "log_purge"}, h.errConfig)

	default:
		// upstream hatası veya success:false, liste yine de gösterilir
		d.Mount(r.Context())
		h.render(w, r, http.StatusBadGateway, "activities.html", PageData{
			Title:   "Activity Log",
			View:    d.View(h.now()),
			Notices: prompter.Notices("error"),
		})
	}
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	data.RequestID = middleware.RequestIDFromContext(r.Context())

	// status sadece render başarılıysa yazılır
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Şablon render edilemedi")
		middleware.WriteError(w, r, err, h.errConfig)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Msg("HTML response yazılamadı")
	}
}
