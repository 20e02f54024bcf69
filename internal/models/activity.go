package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Bilinen action tipleri (liste kapalı değil, upstream yenilerini gönderebilir)
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionExport = "export"
)

// Bilinen entity tipleri
const (
	EntityProduct  = "product"
	EntityUser     = "user"
	EntityStory    = "story"
	EntityBrand    = "brand"
	EntityCategory = "category"
)

// FlexibleID upstream'in number veya string olarak gönderdiği id değerleri
type FlexibleID string

// UnmarshalJSON hem 42 hem "42" kabul eder
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

// ActivityUser aktiviteyi yapan kullanıcı özeti
type ActivityUser struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
}

// UnmarshalJSON user alanı bazen sadece isim string'i olarak gelir
func (u *ActivityUser) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*u = ActivityUser{Name: name}
		return nil
	}
	type plain ActivityUser
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = ActivityUser(p)
	return nil
}

// DisplayName isim, email veya id'den ilk dolu olanı döner
func (u ActivityUser) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	case u.ID != "":
		return "#" + string(u.ID)
	default:
		return "Unknown"
	}
}

// Activity tek bir audit log kaydı. Fetch edildikten sonra değiştirilmez.
type Activity struct {
	ID         FlexibleID      `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   FlexibleID      `json:"entityId,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	User       ActivityUser    `json:"user"`
	CreatedAt  string          `json:"createdAt"` // timestamp benzeri, dateformat ile gösterilir
	IPAddress  string          `json:"ipAddress,omitempty"`
}

// DetailsText details alanını gösterilebilir metne çevirir.
// String ise olduğu gibi, obje ise compact JSON döner.
func (a Activity) DetailsText() string {
	raw := bytes.TrimSpace(a.Details)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Filters kullanıcının seçtiği filtreler. Boş string "all" anlamına gelir.
type Filters struct {
	EntityType string `json:"entityType"`
	Action     string `json:"action"`
	UserID     string `json:"userId"`
	Days       int    `json:"days"`
}

// Filter alan isimleri (SetFilter için)
const (
	FilterEntityType = "entityType"
	FilterAction     = "action"
	FilterUserID     = "userId"
	FilterDays       = "days"
)

// DefaultDays varsayılan istatistik periyodu
const DefaultDays = 30

// DaysOptions filtre panelindeki periyot seçenekleri
var DaysOptions = []int{1, 7, 30, 90, 365}

// DefaultFilters "all" filtreleri ve varsayılan periyot
func DefaultFilters() Filters {
	return Filters{Days: DefaultDays}
}

// NormalizeFilterValue "all" değerini boş string'e çevirir
func NormalizeFilterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// Pagination sayfalama bilgisi
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ActivityQuery GET /activities sorgusu
type ActivityQuery struct {
	Page    int
	Limit   int
	Filters Filters
}

// Values query string alanlarını döner. Boş filtre değerleri de gönderilir,
// upstream boş değeri "filtre yok" olarak yorumlar.
func (q ActivityQuery) Values() map[string]string {
	return map[string]string{
		"page":       strconv.Itoa(q.Page),
		"limit":      strconv.Itoa(q.Limit),
		"entityType": q.Filters.EntityType,
		"action":     q.Filters.Action,
		"userId":     q.Filters.UserID,
		"days":       strconv.Itoa(q.Filters.Days),
	}
}

// ActivityPage normalize edilmiş liste cevabı
type ActivityPage struct {
	Activities []Activity `json:"activities"`
	Pagination Pagination `json:"pagination"`
}

// DailyStat günlük aktivite sayısı
type DailyStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopUser periyottaki en aktif kullanıcılar
type TopUser struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
	Count int        `json:"count"`
}

// EntityStat entity tipine göre aktivite sayısı
type EntityStat struct {
	EntityType string `json:"entityType"`
	Count      int    `json:"count"`
}

// Stats GET /activities/stats cevabı (read-only aggregate)
type Stats struct {
	DailyStats    []DailyStat  `json:"dailyStats"`
	TopUsers      []TopUser    `json:"topUsers"`
	ActivityStats []EntityStat `json:"activityStats"`
}

// TotalActivities dailyStats toplamı
func (s Stats) TotalActivities() int {
	total := 0
	for _, d := range s.DailyStats {
		total += d.Count
	}
	return total
}

// AgeBucketLabels purge status'taki ageRanges sırası sabittir
var AgeBucketLabels = []string{"0-7 days", "0-30 days", "0-90 days", "Older than 90 days"}

// AgeRange yaş aralığındaki kayıt sayısı
type AgeRange struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LogPurgeStatus GET /log-purge/status cevabındaki data
type LogPurgeStatus struct {
	Total        int        `json:"total"`
	AgeRanges    []AgeRange `json:"ageRanges"`
	OldestRecord *string    `json:"oldestRecord"`
	NewestRecord *string    `json:"newestRecord"`
}

// BucketCount sabit bucket index'indeki sayıyı döner, yoksa 0
func (s LogPurgeStatus) BucketCount(index int) int {
	if index < 0 || index >= len(s.AgeRanges) {
		return 0
	}
	return s.AgeRanges[index].Count
}

// PurgeThresholds manuel purge için izin verilen gün eşikleri
var PurgeThresholds = []int{30, 90}

// IsPurgeThreshold eşik izinli mi?
func IsPurgeThreshold(days int) bool {
	for _, d := range PurgeThresholds {
		if d == days {
			return true
		}
	}
	return false
}

// PurgeRequest POST /log-purge/manual body
type PurgeRequest struct {
	DaysOld int `json:"daysOld"`
}

// PurgeResult POST /log-purge/manual cevabı
type PurgeResult struct {
	Success      bool   `json:"success"`
	DeletedCount int    `json:"deletedCount,omitempty"`
	Message      string `json:"message,omitempty"`
}
