// internal/interfaces/service.go
package interfaces

import (
	"context"

	"github.com/onerilhan/go-activity-dashboard/internal/models"
)

// ActivityAPIInterface upstream audit API işlemleri için interface
type ActivityAPIInterface interface {
	// ListActivities filtrelenmiş, sayfalı aktivite listesini getirir
	ListActivities(ctx context.Context, q models.ActivityQuery) (*models.ActivityPage, error)

	// GetStats periyot istatistiklerini getirir
	GetStats(ctx context.Context, days int) (*models.Stats, error)

	// ExportCSV periyottaki aktiviteleri CSV olarak getirir
	ExportCSV(ctx context.Context, days int) ([]byte, error)

	// GetPurgeStatus log retention durumunu getirir
	GetPurgeStatus(ctx context.Context) (*models.LogPurgeStatus, error)

	// ManualPurge daysOld günden eski logları siler (geri alınamaz)
	ManualPurge(ctx context.Context, daysOld int) (*models.PurgeResult, error)
}

// Prompter kullanıcıyla etkileşim (onay sorusu, bloklayan bildirim)
type Prompter interface {
	// Confirm kullanıcıdan onay ister
	Confirm(message string) bool

	// Alert kullanıcıya bloklayan bir bildirim gösterir
	Alert(message string)
}

// Downloader dosya indirme yeteneği
type Downloader interface {
	// Download verilen içeriği dosya olarak kullanıcıya teslim eder
	Download(filename, contentType string, data []byte) error
}
