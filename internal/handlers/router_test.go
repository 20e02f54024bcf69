package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onerilhan/go-activity-dashboard/internal/middleware"
	apierrors "github.com/onerilhan/go-activity-dashboard/internal/middleware/errors"
	"github.com/onerilhan/go-activity-dashboard/internal/urlresolver"
)

func newTestRouter(t *testing.T, api *MockActivityAPI) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env := urlresolver.Environment{Development: true}
	return NewRouter(ctx, RouterConfig{
		Dashboard: newTestHandler(t, api),
		Health:    NewHealthHandler(api, "test"),
		CORS:      middleware.NewCORSConfig(env, nil),
		Security:  middleware.DevelopmentSecurityConfig(),
	})
}

func TestRouter_DashboardPageWithMiddleware(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	api.On("ListActivities", mock.Anything, mock.Anything).Return(activityPage(1, 10, 1), nil)
	api.On("GetStats", mock.Anything, 30).Return(nil, errors.New("down"))
	api.On("GetPurgeStatus", mock.Anything).Return(purgeStatus(), nil)
	router := newTestRouter(t, api)

	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'none'")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRouter_RootRedirects(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/activities", rec.Header().Get("Location"))
}

func TestRouter_NotFoundJSON(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp apierrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities/purge", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_ValidationErrorBecomesJSON(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activities?entityType=%3Cb%3E", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_PurgeFormThroughMiddleware(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	router := newTestRouter(t, api)

	form := url.Values{"daysOld": {"30"}, "confirm": {"no"}}
	req := httptest.NewRequest(http.MethodPost, "/activities/purge", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	api.AssertNotCalled(t, "ManualPurge", mock.Anything, mock.Anything)
}

func TestRouter_Health(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	api.On("GetPurgeStatus", mock.Anything).Return(nil, errors.New("down")).Once()
	router := newTestRouter(t, api)

	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unreachable", resp.Upstream)
}

func TestRouter_MetricsEndpoints(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activity_dashboard_http_requests_total")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot middleware.MetricsSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.GreaterOrEqual(t, snapshot.TotalRequests, int64(2))
	assert.Contains(t, snapshot.RouteCounts, "/")
	assert.Contains(t, snapshot.RouteCounts, "/metrics")
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, new(MockActivityAPI))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/activities/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
