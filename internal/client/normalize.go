package client

import (
	"encoding/json"

	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/pagination"
)

type activityPayload struct {
	Activities []models.Activity `json:"activities"`
	Pagination *models.Pagination `json:"pagination"`
}

// normalizeActivityPage upstream'in iki zarf formatını tek tipe indirir:
//
//	{ "data": { "activities": [...], "pagination": {...} } }
//	{ "activities": [...], "pagination": {...} }
//
// İkisi de tutmazsa boş liste ve sıfırlanmış pagination ile ok=false döner.
func normalizeActivityPage(body []byte) (*models.ActivityPage, bool) {
	var nested struct {
		Data *activityPayload `json:"data"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Data != nil && nested.Data.Activities != nil {
		return toPage(nested.Data), true
	}

	var flat activityPayload
	if err := json.Unmarshal(body, &flat); err == nil && flat.Activities != nil {
		return toPage(&flat), true
	}

	return &models.ActivityPage{Activities: []models.Activity{}}, false
}

func toPage(p *activityPayload) *models.ActivityPage {
	page := &models.ActivityPage{Activities: p.Activities}
	if p.Pagination != nil {
		page.Pagination = *p.Pagination
	}
	if page.Pagination.Pages == 0 {
		page.Pagination.Pages = pagination.TotalPages(page.Pagination.Total, page.Pagination.Limit)
	}
	return page
}
