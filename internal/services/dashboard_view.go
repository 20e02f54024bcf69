package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/onerilhan/go-activity-dashboard/internal/dateformat"
	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/pagination"
)

// StatCard özet kartı
type StatCard struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

// ActivityRow tabloda gösterilen, formatlanmış aktivite satırı
type ActivityRow struct {
	ID                string `json:"id"`
	Action            string `json:"action"`
	ActionLabel       string `json:"actionLabel"`
	BadgeClass        string `json:"badgeClass"`
	EntityType        string `json:"entityType"`
	EntityID          string `json:"entityId,omitempty"`
	Details           string `json:"details,omitempty"`
	User              string `json:"user"`
	IPAddress         string `json:"ipAddress,omitempty"`
	CreatedAt         string `json:"createdAt"`
	CreatedAtFull     string `json:"createdAtFull"`
	CreatedAtISO      string `json:"createdAtIso"`
	CreatedAtRelative string `json:"createdAtRelative"`
}

// AgeBucketView purge status bucket'ı
type AgeBucketView struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PurgeStatusView retention paneli
type PurgeStatusView struct {
	Total        int             `json:"total"`
	Buckets      []AgeBucketView `json:"buckets"`
	OldestRecord string          `json:"oldestRecord"`
	NewestRecord string          `json:"newestRecord"`
}

// PurgeOption "X günden eskileri sil" butonu
type PurgeOption struct {
	DaysOld  int    `json:"daysOld"`
	Label    string `json:"label"`
	Eligible int    `json:"eligible"`
	Disabled bool   `json:"disabled"`
}

// DashboardView sayfanın render edilmeye hazır hali
type DashboardView struct {
	Filters     models.Filters    `json:"filters"`
	Pagination  models.Pagination `json:"pagination"`
	Loading     bool              `json:"loading"`
	ShowSpinner bool              `json:"showSpinner"`
	Purging     bool              `json:"purging"`

	StatCards       []StatCard          `json:"statCards"`
	TopUsers        []models.TopUser    `json:"topUsers"`
	EntityBreakdown []models.EntityStat `json:"entityBreakdown"`

	Activities []ActivityRow     `json:"activities"`
	PageItems  []pagination.Item `json:"pageItems"`
	HasPrev    bool              `json:"hasPrev"`
	HasNext    bool              `json:"hasNext"`
	PrevPage   int               `json:"prevPage"`
	NextPage   int               `json:"nextPage"`
	RangeStart int               `json:"rangeStart"`
	RangeEnd   int               `json:"rangeEnd"`

	PurgeStatus  *PurgeStatusView `json:"purgeStatus,omitempty"`
	PurgeOptions []PurgeOption    `json:"purgeOptions"`

	ExportFilename string `json:"exportFilename"`

	DaysOptions       []int    `json:"daysOptions"`
	LimitOptions      []int    `json:"limitOptions"`
	EntityTypeOptions []string `json:"entityTypeOptions"`
	ActionOptions     []string `json:"actionOptions"`
}

var (
	entityTypeOptions = []string{models.EntityProduct, models.EntityUser, models.EntityStory, models.EntityBrand, models.EntityCategory}
	actionOptions     = []string{models.ActionCreate, models.ActionUpdate, models.ActionDelete, models.ActionLogin, models.ActionLogout, models.ActionExport}
)

// View mevcut state'ten view model üretir. now relatif zamanlar için kullanılır.
func (d *Dashboard) View(now time.Time) DashboardView {
	state := d.Snapshot()
	return BuildView(state, now)
}

// BuildView state kopyasından view model üretir
func BuildView(state DashboardState, now time.Time) DashboardView {
	p := state.Pagination

	view := DashboardView{
		Filters:           state.Filters,
		Pagination:        p,
		Loading:           state.Loading,
		ShowSpinner:       state.Loading && len(state.Activities) == 0,
		Purging:           state.Purging,
		StatCards:         buildStatCards(state),
		Activities:        make([]ActivityRow, 0, len(state.Activities)),
		PageItems:         pagination.Window(p.Page, p.Pages),
		HasPrev:           p.Page > 1,
		HasNext:           p.Page < p.Pages,
		PrevPage:          p.Page - 1,
		NextPage:          p.Page + 1,
		PurgeOptions:      buildPurgeOptions(state),
		ExportFilename:    ExportFilename(state.Filters.Days),
		DaysOptions:       models.DaysOptions,
		LimitOptions:      pagination.AllowedLimits,
		EntityTypeOptions: entityTypeOptions,
		ActionOptions:     actionOptions,
	}

	if p.Total > 0 && len(state.Activities) > 0 {
		view.RangeStart = (p.Page-1)*p.Limit + 1
		view.RangeEnd = view.RangeStart + len(state.Activities) - 1
	}

	if state.Stats != nil {
		view.TopUsers = state.Stats.TopUsers
		view.EntityBreakdown = state.Stats.ActivityStats
	}

	for _, a := range state.Activities {
		view.Activities = append(view.Activities, buildRow(a, now))
	}

	if state.PurgeStatus != nil {
		view.PurgeStatus = buildPurgeStatus(state.PurgeStatus)
	}

	return view
}

func buildRow(a models.Activity, now time.Time) ActivityRow {
	return ActivityRow{
		ID:                string(a.ID),
		Action:            a.Action,
		ActionLabel:       capitalize(a.Action),
		BadgeClass:        badgeClass(a.Action),
		EntityType:        a.EntityType,
		EntityID:          string(a.EntityID),
		Details:           a.DetailsText(),
		User:              a.User.DisplayName(),
		IPAddress:         a.IPAddress,
		CreatedAt:         dateformat.FormatDateTime(a.CreatedAt),
		CreatedAtFull:     dateformat.FormatDateTimeFull(a.CreatedAt),
		CreatedAtISO:      dateformat.FormatISO(a.CreatedAt),
		CreatedAtRelative: dateformat.FormatRelativeTimeAt(a.CreatedAt, now),
	}
}

// buildStatCards dört özet kartı. Stats henüz gelmediyse ilgili kartlar "-" gösterir.
func buildStatCards(state DashboardState) []StatCard {
	days := state.Filters.Days

	cards := []StatCard{
		{
			Key:   "total",
			Title: "Total Activities",
			Value: strconv.Itoa(state.Pagination.Total),
			Hint:  "matching current filters",
		},
	}

	if state.Stats == nil {
		return append(cards,
			StatCard{Key: "users", Title: "Active Users", Value: "-"},
			StatCard{Key: "entity", Title: "Most Active Entity", Value: "-"},
			StatCard{Key: "daily", Title: "Daily Average", Value: "-"},
		)
	}

	top := "-"
	topCount := 0
	for _, e := range state.Stats.ActivityStats {
		if e.Count > topCount {
			top, topCount = e.EntityType, e.Count
		}
	}

	average := 0.0
	if days > 0 {
		average = float64(state.Stats.TotalActivities()) / float64(days)
	}

	return append(cards,
		StatCard{
			Key:   "users",
			Title: "Active Users",
			Value: strconv.Itoa(len(state.Stats.TopUsers)),
			Hint:  fmt.Sprintf("last %d days", days),
		},
		StatCard{
			Key:   "entity",
			Title: "Most Active Entity",
			Value: capitalize(top),
			Hint:  fmt.Sprintf("%d activities", topCount),
		},
		StatCard{
			Key:   "daily",
			Title: "Daily Average",
			Value: strconv.FormatFloat(average, 'f', 1, 64),
			Hint:  fmt.Sprintf("%d activities in %d days", state.Stats.TotalActivities(), days),
		},
	)
}

func buildPurgeStatus(s *models.LogPurgeStatus) *PurgeStatusView {
	view := &PurgeStatusView{
		Total:        s.Total,
		Buckets:      make([]AgeBucketView, 0, len(models.AgeBucketLabels)),
		OldestRecord: "N/A",
		NewestRecord: "N/A",
	}
	for i, label := range models.AgeBucketLabels {
		view.Buckets = append(view.Buckets, AgeBucketView{Label: label, Count: s.BucketCount(i)})
	}
	if s.OldestRecord != nil {
		view.OldestRecord = dateformat.FormatDateTime(*s.OldestRecord)
	}
	if s.NewestRecord != nil {
		view.NewestRecord = dateformat.FormatDateTime(*s.NewestRecord)
	}
	return view
}

// buildPurgeOptions eşik başına buton. Purge devam ederken hepsi disabled.
// Eligible: 30 gün için total - "0-30 days", 90 gün için "Older than 90 days".
func buildPurgeOptions(state DashboardState) []PurgeOption {
	options := make([]PurgeOption, 0, len(models.PurgeThresholds))
	for _, days := range models.PurgeThresholds {
		opt := PurgeOption{
			DaysOld:  days,
			Label:    fmt.Sprintf("Delete logs older than %d days", days),
			Disabled: state.Purging,
		}
		if s := state.PurgeStatus; s != nil {
			switch days {
			case 30:
				opt.Eligible = max(s.Total-s.BucketCount(1), 0)
			case 90:
				opt.Eligible = s.BucketCount(3)
			}
		}
		options = append(options, opt)
	}
	return options
}

func badgeClass(action string) string {
	switch action {
	case models.ActionCreate:
		return "badge-success"
	case models.ActionUpdate:
		return "badge-info"
	case models.ActionDelete:
		return "badge-danger"
	case models.ActionLogin, models.ActionLogout:
		return "badge-secondary"
	default:
		return "badge-light"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
