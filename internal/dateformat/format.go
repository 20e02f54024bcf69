// Package dateformat timestamp benzeri değerleri sabit formatlı görüntü
// string'lerine çevirir. Tüm fonksiyonlar boş veya parse edilemeyen girdi
// için "" döner.
package dateformat

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout         = "02/01/2006"
	dateTimeLayout     = "02/01/2006 15:04"
	dateTimeFullLayout = "02/01/2006 15:04:05"
	isoLayout          = "2006-01-02T15:04:05.000Z"
)

// Relative bucket genişlikleri (saniye). Ay ve yıl takvime göre değil,
// sabit 30 ve 365 gün olarak alınır.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2592000
	secondsPerYear   = 31536000
)

// zone bilgisi olmayan string formatlar, local zone'da yorumlanır
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate dd/mm/yyyy
func FormatDate(v any) string {
	return format(v, dateLayout)
}

// FormatDateTime dd/mm/yyyy hh:mm (24 saat)
func FormatDateTime(v any) string {
	return format(v, dateTimeLayout)
}

// FormatDateTimeFull dd/mm/yyyy hh:mm:ss
func FormatDateTimeFull(v any) string {
	return format(v, dateTimeFullLayout)
}

// FormatISO ISO-8601 UTC string (milisaniye hassasiyetinde)
func FormatISO(v any) string {
	t, ok := Parse(v)
	if !ok {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// FormatRelativeTime şimdiye göre "N units ago" string'i döner
func FormatRelativeTime(v any) string {
	return FormatRelativeTimeAt(v, time.Now())
}

// FormatRelativeTimeAt verilen ana göre relative string üretir.
// Gelecekteki zamanlar "Just now" bucket'ına düşer.
func FormatRelativeTimeAt(v any, now time.Time) string {
	t, ok := Parse(v)
	if !ok {
		return ""
	}

	diff := int64(math.Floor(now.Sub(t).Seconds()))

	switch {
	case diff < secondsPerMinute:
		return "Just now"
	case diff < secondsPerHour:
		return ago(diff/secondsPerMinute, "minute")
	case diff < secondsPerDay:
		return ago(diff/secondsPerHour, "hour")
	case diff < secondsPerMonth:
		return ago(diff/secondsPerDay, "day")
	case diff < secondsPerYear:
		return ago(diff/secondsPerMonth, "month")
	default:
		return ago(diff/secondsPerYear, "year")
	}
}

// Parse timestamp benzeri değeri time.Time'a çevirir.
// Desteklenen tipler: string, *string, time.Time, *time.Time, int64 (unix ms)
func Parse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		return parseString(x)
	case *string:
		if x == nil {
			return time.Time{}, false
		}
		return parseString(*x)
	case int64:
		return time.UnixMilli(x), true
	case int:
		return time.UnixMilli(int64(x)), true
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// RFC3339 fractional saniyeleri de kabul eder
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func format(v any, layout string) string {
	t, ok := Parse(v)
	if !ok {
		return ""
	}
	return t.Local().Format(layout)
}

func ago(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
