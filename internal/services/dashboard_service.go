package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/onerilhan/go-activity-dashboard/internal/interfaces"
	"github.com/onerilhan/go-activity-dashboard/internal/metrics"
	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/pagination"
)

var (
	ErrInvalidFilter         = errors.New("geçersiz filtre")
	ErrInvalidLimit          = errors.New("geçersiz sayfa boyutu")
	ErrInvalidPurgeThreshold = errors.New("geçersiz purge eşiği")
	ErrPurgeInProgress       = errors.New("purge işlemi zaten devam ediyor")
	ErrPurgeCancelled        = errors.New("purge işlemi kullanıcı tarafından iptal edildi")
	ErrPurgeFailed           = errors.New("purge işlemi başarısız")
)

// concern bağımsız olarak fetch edilen state dilimi
type concern string

const (
	concernActivities  concern = "activities"
	concernStats       concern = "stats"
	concernPurgeStatus concern = "purge_status"
)

// DashboardState sayfa state'inin kopyası
type DashboardState struct {
	Filters     models.Filters
	Pagination  models.Pagination
	Activities  []models.Activity
	Stats       *models.Stats
	PurgeStatus *models.LogPurgeStatus
	Loading     bool
	Purging     bool
}

// DashboardOption Dashboard'u yapılandırır
type DashboardOption func(*Dashboard)

// WithFilters başlangıç filtrelerini ayarlar
func WithFilters(f models.Filters) DashboardOption {
	return func(d *Dashboard) {
		if f.Days <= 0 {
			f.Days = models.DefaultDays
		}
		d.filters = f
	}
}

// WithPage başlangıç sayfası ve sayfa boyutunu ayarlar
func WithPage(page, limit int) DashboardOption {
	return func(d *Dashboard) {
		if page >= 1 {
			d.pagination.Page = page
		}
		if pagination.IsAllowedLimit(limit) {
			d.pagination.Limit = limit
		}
	}
}

// WithPurging başka bir istekte süren purge'ü yansıtır. Bu Dashboard
// üzerinden yeni purge başlatılamaz, view'da butonlar disabled görünür.
func WithPurging(purging bool) DashboardOption {
	return func(d *Dashboard) {
		d.purging = purging
	}
}

// Dashboard Activities sayfasının state'ini ve fetch orkestrasyonunu yönetir.
// Dört concern (liste, istatistik, purge durumu, purge aksiyonu) birbirinden
// bağımsız hata verir; pasif fetch hataları loglanır ve önceki state korunur.
type Dashboard struct {
	api        interfaces.ActivityAPIInterface
	prompter   interfaces.Prompter
	downloader interfaces.Downloader

	mu          sync.Mutex
	filters     models.Filters
	pagination  models.Pagination
	activities  []models.Activity
	stats       *models.Stats
	purgeStatus *models.LogPurgeStatus
	loading     bool
	purging     bool

	// her state değişikliğinde artar; eski token'lı cevaplar atılır
	generations map[concern]uint64
}

// NewDashboard yeni dashboard oluşturur
func NewDashboard(api interfaces.ActivityAPIInterface, prompter interfaces.Prompter, downloader interfaces.Downloader, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		api:         api,
		prompter:    prompter,
		downloader:  downloader,
		filters:     models.DefaultFilters(),
		pagination:  models.Pagination{Page: 1, Limit: pagination.DefaultLimit},
		activities:  []models.Activity{},
		generations: make(map[concern]uint64),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Mount üç pasif fetch'i eşzamanlı çalıştırır
func (d *Dashboard) Mount(ctx context.Context) {
	d.runEffects(ctx, concernActivities, concernStats, concernPurgeStatus)
}

// Refresh Mount ile aynı, purge sonrası ve manuel yenilemede kullanılır
func (d *Dashboard) Refresh(ctx context.Context) {
	d.runEffects(ctx, concernActivities, concernStats, concernPurgeStatus)
}

// runEffects verilen concern'leri paralel fetch eder. Hatalar concern
// içinde loglanır, burada toplanmaz.
func (d *Dashboard) runEffects(ctx context.Context, concerns ...concern) {
	var g errgroup.Group
	for _, c := range concerns {
		c := c
		g.Go(func() error {
			switch c {
			case concernActivities:
				d.FetchActivities(ctx)
			case concernStats:
				d.FetchStats(ctx)
			case concernPurgeStatus:
				d.FetchPurgeStatus(ctx)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// nextGeneration mu tutulurken çağrılmalı
func (d *Dashboard) nextGeneration(c concern) uint64 {
	d.generations[c]++
	return d.generations[c]
}

// isStale mu tutulurken çağrılmalı
func (d *Dashboard) isStale(c concern, gen uint64) bool {
	if d.generations[c] == gen {
		return false
	}
	metrics.StaleResponsesTotal.WithLabelValues(string(c)).Inc()
	log.Debug().
		Str("concern", string(c)).
		Uint64("generation", gen).
		Uint64("current", d.generations[c]).
		Msg("Eski cevap atıldı")
	return true
}

// FetchActivities aktivite listesini mevcut filtre ve sayfaya göre getirir.
// İstenen sayfa toplam sayfa sayısını aşıyorsa son sayfa bir kez daha istenir.
func (d *Dashboard) FetchActivities(ctx context.Context) {
	if d.fetchActivities(ctx) {
		d.fetchActivities(ctx)
	}
}

// fetchActivities sayfa [1, pages] dışına düştüyse düzeltir ve true döner
func (d *Dashboard) fetchActivities(ctx context.Context) bool {
	d.mu.Lock()
	gen := d.nextGeneration(concernActivities)
	query := models.ActivityQuery{Page: d.pagination.Page, Limit: d.pagination.Limit, Filters: d.filters}
	d.loading = true
	d.mu.Unlock()

	page, err := d.api.ListActivities(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isStale(concernActivities, gen) {
		return false
	}
	d.loading = false

	if err != nil {
		log.Error().
			Err(err).
			Int("page", query.Page).
			Int("limit", query.Limit).
			Msg("Aktiviteler getirilemedi")
		return false
	}

	d.activities = page.Activities
	if d.activities == nil {
		d.activities = []models.Activity{}
	}
	if page.Pagination.Page > 0 {
		d.pagination.Page = page.Pagination.Page
	}
	if page.Pagination.Limit > 0 {
		d.pagination.Limit = page.Pagination.Limit
	}
	d.pagination.Total = page.Pagination.Total
	d.pagination.Pages = page.Pagination.Pages
	if d.pagination.Pages == 0 {
		d.pagination.Pages = pagination.TotalPages(d.pagination.Total, d.pagination.Limit)
	}

	log.Debug().
		Int("count", len(d.activities)).
		Int("page", d.pagination.Page).
		Int("total", d.pagination.Total).
		Msg("Aktiviteler getirildi")

	if d.pagination.Pages == 0 {
		return false
	}
	clamped := pagination.Clamp(d.pagination.Page, d.pagination.Pages)
	if clamped == d.pagination.Page {
		return false
	}
	log.Debug().
		Int("requested", d.pagination.Page).
		Int("pages", d.pagination.Pages).
		Msg("Sayfa aralık dışında, son sayfaya çekildi")
	d.pagination.Page = clamped
	return true
}

// FetchStats days filtresine göre istatistikleri getirir
func (d *Dashboard) FetchStats(ctx context.Context) {
	d.mu.Lock()
	gen := d.nextGeneration(concernStats)
	days := d.filters.Days
	d.mu.Unlock()

	stats, err := d.api.GetStats(ctx, days)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isStale(concernStats, gen) {
		return
	}
	if err != nil {
		log.Error().Err(err).Int("days", days).Msg("İstatistikler getirilemedi")
		return
	}
	d.stats = stats
}

// FetchPurgeStatus log retention durumunu getirir
func (d *Dashboard) FetchPurgeStatus(ctx context.Context) {
	d.mu.Lock()
	gen := d.nextGeneration(concernPurgeStatus)
	d.mu.Unlock()

	status, err := d.api.GetPurgeStatus(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isStale(concernPurgeStatus, gen) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Purge durumu getirilemedi")
		return
	}
	d.purgeStatus = status
}

// SetFilter tek bir filtre alanını günceller ve sayfayı koşulsuz 1'e çeker.
// Liste her zaman, istatistikler sadece days değiştiyse yeniden getirilir.
func (d *Dashboard) SetFilter(ctx context.Context, field, value string) error {
	d.mu.Lock()
	next := d.filters
	switch field {
	case models.FilterEntityType:
		next.EntityType = models.NormalizeFilterValue(value)
	case models.FilterAction:
		next.Action = models.NormalizeFilterValue(value)
	case models.FilterUserID:
		next.UserID = models.NormalizeFilterValue(value)
	case models.FilterDays:
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			d.mu.Unlock()
			return fmt.Errorf("%w: days=%q", ErrInvalidFilter, value)
		}
		next.Days = days
	default:
		d.mu.Unlock()
		return fmt.Errorf("%w: bilinmeyen alan %q", ErrInvalidFilter, field)
	}
	d.mu.Unlock()

	d.applyFilters(ctx, next)
	return nil
}

// SetFilters tüm filtreleri birden değiştirir
func (d *Dashboard) SetFilters(ctx context.Context, f models.Filters) error {
	if f.Days <= 0 {
		return fmt.Errorf("%w: days=%d", ErrInvalidFilter, f.Days)
	}
	f.EntityType = models.NormalizeFilterValue(f.EntityType)
	f.Action = models.NormalizeFilterValue(f.Action)
	f.UserID = models.NormalizeFilterValue(f.UserID)

	d.applyFilters(ctx, f)
	return nil
}

func (d *Dashboard) applyFilters(ctx context.Context, next models.Filters) {
	d.mu.Lock()
	daysChanged := next.Days != d.filters.Days
	d.filters = next
	d.pagination.Page = 1
	d.mu.Unlock()

	effects := []concern{concernActivities}
	if daysChanged {
		effects = append(effects, concernStats)
	}
	d.runEffects(ctx, effects...)
}

// SetPage sayfayı değiştirir. [1, pages] dışı veya mevcut sayfa no-op'tur.
func (d *Dashboard) SetPage(ctx context.Context, page int) bool {
	d.mu.Lock()
	if page < 1 || page > d.pagination.Pages || page == d.pagination.Page {
		d.mu.Unlock()
		return false
	}
	d.pagination.Page = page
	d.mu.Unlock()

	d.FetchActivities(ctx)
	return true
}

// NextPage bir sonraki sayfaya geçer
func (d *Dashboard) NextPage(ctx context.Context) bool {
	d.mu.Lock()
	page := d.pagination.Page + 1
	d.mu.Unlock()
	return d.SetPage(ctx, page)
}

// PrevPage bir önceki sayfaya döner
func (d *Dashboard) PrevPage(ctx context.Context) bool {
	d.mu.Lock()
	page := d.pagination.Page - 1
	d.mu.Unlock()
	return d.SetPage(ctx, page)
}

// SetLimit sayfa boyutunu değiştirir (10|25|50|100) ve ilk sayfaya döner
func (d *Dashboard) SetLimit(ctx context.Context, limit int) error {
	if !pagination.IsAllowedLimit(limit) {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	d.mu.Lock()
	d.pagination.Limit = limit
	d.pagination.Page = 1
	d.mu.Unlock()

	d.FetchActivities(ctx)
	return nil
}

// ExportFilename export edilen CSV'nin dosya adı
func ExportFilename(days int) string {
	return fmt.Sprintf("activities-export-%ddays.csv", days)
}

// Export days periyodundaki aktiviteleri CSV olarak indirir.
// Hata sadece loglanır, liste/istatistik state'i değişmez.
func (d *Dashboard) Export(ctx context.Context) error {
	d.mu.Lock()
	days := d.filters.Days
	d.mu.Unlock()

	data, err := d.api.ExportCSV(ctx, days)
	if err != nil {
		log.Error().Err(err).Int("days", days).Msg("CSV export başarısız")
		return fmt.Errorf("CSV export başarısız: %w", err)
	}

	filename := ExportFilename(days)
	if err := d.downloader.Download(filename, "text/csv", data); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("CSV indirme başarısız")
		return fmt.Errorf("CSV indirilemedi: %w", err)
	}

	log.Info().Str("filename", filename).Int("size", len(data)).Msg("📤 Aktiviteler export edildi")
	return nil
}

// PurgeConfirmMessage onay sorusunda gösterilen metin
func PurgeConfirmMessage(daysOld int) string {
	return fmt.Sprintf("Are you sure you want to delete all activity logs older than %d days? This action cannot be undone.", daysOld)
}

// Purge daysOld günden eski logları siler. Kullanıcı onayı gerekir ve
// devam eden bir purge varken ikinci istek reddedilir. Başarıda üç pasif
// fetch bir kez yeniden çalışır; purging bayrağı refresh'ten önce iner.
func (d *Dashboard) Purge(ctx context.Context, daysOld int) (*models.PurgeResult, error) {
	if !models.IsPurgeThreshold(daysOld) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPurgeThreshold, daysOld)
	}

	if d.IsPurging() {
		return nil, ErrPurgeInProgress
	}

	if !d.prompter.Confirm(PurgeConfirmMessage(daysOld)) {
		log.Info().Int("days_old", daysOld).Msg("Purge kullanıcı tarafından iptal edildi")
		return nil, ErrPurgeCancelled
	}

	d.mu.Lock()
	if d.purging {
		d.mu.Unlock()
		return nil, ErrPurgeInProgress
	}
	d.purging = true
	d.mu.Unlock()

	result, err := d.api.ManualPurge(ctx, daysOld)
	d.setPurging(false)

	if err != nil {
		metrics.PurgesTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Int("days_old", daysOld).Msg("❌ Purge isteği başarısız")
		d.prompter.Alert("Failed to purge logs. Please try again.")
		return nil, fmt.Errorf("%w: %v", ErrPurgeFailed, err)
	}

	if !result.Success {
		metrics.PurgesTotal.WithLabelValues("rejected").Inc()
		message := result.Message
		if message == "" {
			message = "Unknown error"
		}
		log.Warn().Int("days_old", daysOld).Str("message", message).Msg("Purge upstream tarafından reddedildi")
		d.prompter.Alert("Failed to purge logs: " + message)
		return result, fmt.Errorf("%w: %s", ErrPurgeFailed, message)
	}

	metrics.PurgesTotal.WithLabelValues("success").Inc()
	log.Info().Int("days_old", daysOld).Int("deleted", result.DeletedCount).Msg("🗑️ Eski loglar silindi")
	d.prompter.Alert(fmt.Sprintf("Successfully deleted %d activity logs older than %d days.", result.DeletedCount, daysOld))

	d.Refresh(ctx)
	return result, nil
}

func (d *Dashboard) setPurging(v bool) {
	d.mu.Lock()
	d.purging = v
	d.mu.Unlock()
}

// IsPurging purge isteği devam ediyor mu?
func (d *Dashboard) IsPurging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.purging
}

// ShowFullPageSpinner sadece ilk yüklemede (henüz aktivite yokken) true
func (d *Dashboard) ShowFullPageSpinner() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading && len(d.activities) == 0
}

// Snapshot state'in kopyasını döner
func (d *Dashboard) Snapshot() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()

	activities := make([]models.Activity, len(d.activities))
	copy(activities, d.activities)

	return DashboardState{
		Filters:     d.filters,
		Pagination:  d.pagination,
		Activities:  activities,
		Stats:       d.stats,
		PurgeStatus: d.purgeStatus,
		Loading:     d.loading,
		Purging:     d.purging,
	}
}
