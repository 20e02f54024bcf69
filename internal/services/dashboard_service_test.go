package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onerilhan/go-activity-dashboard/internal/interfaces"
	"github.com/onerilhan/go-activity-dashboard/internal/models"
	"github.com/onerilhan/go-activity-dashboard/internal/pagination"
)

// MockActivityAPI - test için mock upstream client
type MockActivityAPI struct {
	mock.Mock
}

var _ interfaces.ActivityAPIInterface = (*MockActivityAPI)(nil)

func (m *MockActivityAPI) ListActivities(ctx context.Context, q models.ActivityQuery) (*models.ActivityPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActivityPage), args.Error(1)
}

func (m *MockActivityAPI) GetStats(ctx context.Context, days int) (*models.Stats, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockActivityAPI) ExportCSV(ctx context.Context, days int) ([]byte, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockActivityAPI) GetPurgeStatus(ctx context.Context) (*models.LogPurgeStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LogPurgeStatus), args.Error(1)
}

func (m *MockActivityAPI) ManualPurge(ctx context.Context, daysOld int) (*models.PurgeResult, error) {
	args := m.Called(ctx, daysOld)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurgeResult), args.Error(1)
}

// MockPrompter - onay/bildirim mock'u
type MockPrompter struct {
	mock.Mock
}

var _ interfaces.Prompter = (*MockPrompter)(nil)

func (m *MockPrompter) Confirm(message string) bool {
	return m.Called(message).Bool(0)
}

func (m *MockPrompter) Alert(message string) {
	m.Called(message)
}

// fakeDownloader indirilen dosyaları kaydeder
type fakeDownloader struct {
	mu       sync.Mutex
	files    map[string][]byte
	types    map[string]string
	failWith error
}

var _ interfaces.Downloader = (*fakeDownloader)(nil)

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{files: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeDownloader) Download(filename, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.files[filename] = data
	f.types[filename] = contentType
	return nil
}

func samplePage(page, limit, total int, ids ...string) *models.ActivityPage {
	activities := make([]models.Activity, 0, len(ids))
	for _, id := range ids {
		activities = append(activities, models.Activity{
			ID:         models.FlexibleID(id),
			Action:     models.ActionCreate,
			EntityType: models.EntityProduct,
			User:       models.ActivityUser{Name: "Ayşe"},
			CreatedAt:  "2024-03-05T10:00:00Z",
		})
	}
	return &models.ActivityPage{
		Activities: activities,
		Pagination: models.Pagination{Page: page, Limit: limit, Total: total, Pages: (total + limit - 1) / limit},
	}
}

func sampleStats() *models.Stats {
	return &models.Stats{
		DailyStats:    []models.DailyStat{{Date: "2024-03-05", Count: 30}, {Date: "2024-03-06", Count: 30}},
		TopUsers:      []models.TopUser{{ID: "1", Name: "Ayşe", Count: 40}, {ID: "2", Name: "Mehmet", Count: 20}},
		ActivityStats: []models.EntityStat{{EntityType: "user", Count: 10}, {EntityType: "product", Count: 50}},
	}
}

func sampleStatus() *models.LogPurgeStatus {
	return &models.LogPurgeStatus{
		Total: 120,
		AgeRanges: []models.AgeRange{
			{Label: "0-7 days", Count: 10},
			{Label: "0-30 days", Count: 40},
			{Label: "0-90 days", Count: 100},
			{Label: "Older than 90 days", Count: 20},
		},
	}
}

func queryWith(page, limit int, f models.Filters) models.ActivityQuery {
	return models.ActivityQuery{Page: page, Limit: limit, Filters: f}
}

func TestDashboard_Mount_FetchesAllConcerns(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	api.On("ListActivities", mock.Anything, queryWith(1, 10, models.DefaultFilters())).Return(samplePage(1, 10, 25, "1", "2"), nil).Once()
	api.On("GetStats", mock.Anything, 30).Return(sampleStats(), nil).Once()
	api.On("GetPurgeStatus", mock.Anything).Return(sampleStatus(), nil).Once()

	// Act
	d.Mount(context.Background())

	// Assert
	state := d.Snapshot()
	assert.Len(t, state.Activities, 2)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 25, Pages: 3}, state.Pagination)
	assert.NotNil(t, state.Stats)
	assert.Equal(t, 120, state.PurgeStatus.Total)
	assert.False(t, state.Loading)
	assert.False(t, d.ShowFullPageSpinner())

	api.AssertExpectations(t)
}

func TestDashboard_Mount_IndependentFailures(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 2, "1", "2"), nil)
	api.On("GetStats", mock.Anything, 30).Return(nil, errors.New("stats down"))
	api.On("GetPurgeStatus", mock.Anything).Return(nil, errors.New("purge status down"))

	// Act
	d.Mount(context.Background())

	// Assert - liste yine de gelir, diğer paneller boş kalır
	state := d.Snapshot()
	assert.Len(t, state.Activities, 2)
	assert.Nil(t, state.Stats)
	assert.Nil(t, state.PurgeStatus)

	view := d.View(time.Now())
	assert.Equal(t, "-", view.StatCards[1].Value)
	assert.Nil(t, view.PurgeStatus)
}

func TestDashboard_FetchActivities_ErrorKeepsPreviousList(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 2, "1", "2"), nil).Once()
	api.On("ListActivities", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	// Act
	d.FetchActivities(context.Background())
	d.FetchActivities(context.Background())

	// Assert
	state := d.Snapshot()
	assert.Len(t, state.Activities, 2)
	assert.False(t, state.Loading)
}

func TestDashboard_FetchActivities_ZeroedPaginationKeepsPage(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader(), WithPage(3, 25))

	api.On("ListActivities", mock.Anything, queryWith(3, 25, models.DefaultFilters())).
		Return(&models.ActivityPage{Activities: []models.Activity{}}, nil)

	// Act
	d.FetchActivities(context.Background())

	// Assert
	state := d.Snapshot()
	assert.Empty(t, state.Activities)
	assert.Equal(t, models.Pagination{Page: 3, Limit: 25}, state.Pagination)
}

func TestDashboard_FetchActivities_PageBeyondLastIsClamped(t *testing.T) {
	// Arrange - elle yazılmış ?page=50, toplam 3 sayfa
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader(), WithPage(50, 10))

	api.On("ListActivities", mock.Anything, queryWith(50, 10, models.DefaultFilters())).Return(&models.ActivityPage{
		Activities: []models.Activity{},
		Pagination: models.Pagination{Page: 50, Limit: 10, Total: 25, Pages: 3},
	}, nil).Once()
	api.On("ListActivities", mock.Anything, queryWith(3, 10, models.DefaultFilters())).Return(samplePage(3, 10, 25, "21"), nil).Once()

	// Act
	d.FetchActivities(context.Background())

	// Assert
	state := d.Snapshot()
	assert.Equal(t, models.Pagination{Page: 3, Limit: 10, Total: 25, Pages: 3}, state.Pagination)
	assert.Len(t, state.Activities, 1)

	view := BuildView(state, time.Now())
	assert.Equal(t, 2, view.PrevPage)
	assert.False(t, view.HasNext)
	assert.Equal(t, []pagination.Item{{Number: 1}, {Number: 2}, {Number: 3, Current: true}}, view.PageItems)
	api.AssertExpectations(t)
}

func TestDashboard_SetFilter_ResetsPageAndFetchesList(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader(), WithPage(3, 10))

	want := models.Filters{Action: "delete", Days: 30}
	api.On("ListActivities", mock.Anything, queryWith(1, 10, want)).Return(samplePage(1, 10, 1, "9"), nil).Once()

	// Act
	err := d.SetFilter(context.Background(), models.FilterAction, "delete")

	// Assert
	require.NoError(t, err)
	state := d.Snapshot()
	assert.Equal(t, 1, state.Pagination.Page)
	assert.Equal(t, want, state.Filters)

	// days değişmediği için stats istenmez
	api.AssertNotCalled(t, "GetStats", mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestDashboard_SetFilter_AllMeansEmpty(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader(), WithFilters(models.Filters{EntityType: "product", Days: 30}))

	api.On("ListActivities", mock.Anything, queryWith(1, 10, models.Filters{Days: 30})).Return(samplePage(1, 10, 0), nil).Once()

	// Act
	err := d.SetFilter(context.Background(), models.FilterEntityType, "all")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "", d.Snapshot().Filters.EntityType)
	api.AssertExpectations(t)
}

func TestDashboard_SetFilter_DaysRefetchesStats(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	api.On("ListActivities", mock.Anything, queryWith(1, 10, models.Filters{Days: 7})).Return(samplePage(1, 10, 0), nil).Once()
	api.On("GetStats", mock.Anything, 7).Return(sampleStats(), nil).Once()

	// Act
	err := d.SetFilter(context.Background(), models.FilterDays, "7")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, d.Snapshot().Filters.Days)
	api.AssertNotCalled(t, "GetPurgeStatus", mock.Anything)
	api.AssertExpectations(t)
}

func TestDashboard_SetFilter_Invalid(t *testing.T) {
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	err := d.SetFilter(context.Background(), "color", "red")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	err = d.SetFilter(context.Background(), models.FilterDays, "abc")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	err = d.SetFilter(context.Background(), models.FilterDays, "-5")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	api.AssertNotCalled(t, "ListActivities", mock.Anything, mock.Anything)
}

func TestDashboard_SetPage_Boundaries(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	api.On("ListActivities", mock.Anything, queryWith(1, 10, models.DefaultFilters())).Return(samplePage(1, 10, 30, "1"), nil).Once()
	api.On("ListActivities", mock.Anything, queryWith(2, 10, models.DefaultFilters())).Return(samplePage(2, 10, 30, "11"), nil).Once()
	api.On("ListActivities", mock.Anything, queryWith(3, 10, models.DefaultFilters())).Return(samplePage(3, 10, 30, "21"), nil).Once()
	d.FetchActivities(context.Background())

	// Act & Assert
	assert.False(t, d.PrevPage(context.Background()), "ilk sayfada geri gidilemez")
	assert.False(t, d.SetPage(context.Background(), 1), "mevcut sayfa no-op")
	assert.False(t, d.SetPage(context.Background(), 4), "pages dışı no-op")
	assert.False(t, d.SetPage(context.Background(), 0))

	assert.True(t, d.NextPage(context.Background()))
	assert.Equal(t, 2, d.Snapshot().Pagination.Page)

	assert.True(t, d.SetPage(context.Background(), 3))
	assert.False(t, d.NextPage(context.Background()), "son sayfada ileri gidilemez")

	api.AssertExpectations(t)
}

func TestDashboard_SetLimit(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader(), WithPage(4, 10))

	api.On("ListActivities", mock.Anything, queryWith(1, 50, models.DefaultFilters())).Return(samplePage(1, 50, 0), nil).Once()

	// Act
	err := d.SetLimit(context.Background(), 50)
	invalid := d.SetLimit(context.Background(), 33)

	// Assert
	require.NoError(t, err)
	assert.ErrorIs(t, invalid, ErrInvalidLimit)
	assert.Equal(t, 1, d.Snapshot().Pagination.Page)
	assert.Equal(t, 50, d.Snapshot().Pagination.Limit)
	api.AssertExpectations(t)
}

func TestDashboard_StaleListResponseDiscarded(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	started := make(chan struct{})
	release := make(chan struct{})

	api.On("ListActivities", mock.Anything, mock.MatchedBy(func(q models.ActivityQuery) bool {
		return q.Filters.Action == ""
	})).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(samplePage(1, 10, 1, "old"), nil).Once()

	api.On("ListActivities", mock.Anything, mock.MatchedBy(func(q models.ActivityQuery) bool {
		return q.Filters.Action == "delete"
	})).Return(samplePage(1, 10, 1, "new"), nil).Once()

	// Act
	done := make(chan struct{})
	go func() {
		d.FetchActivities(context.Background())
		close(done)
	}()
	<-started

	require.NoError(t, d.SetFilter(context.Background(), models.FilterAction, "delete"))
	close(release)
	<-done

	// Assert - geç gelen eski cevap yeni sonucu ezmez
	state := d.Snapshot()
	require.Len(t, state.Activities, 1)
	assert.Equal(t, models.FlexibleID("new"), state.Activities[0].ID)
	assert.False(t, state.Loading)
	api.AssertExpectations(t)
}

func TestDashboard_ShowFullPageSpinner_OnlyOnFirstLoad(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	d := NewDashboard(api, new(MockPrompter), newFakeDownloader())

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 1, "1"), nil).Once()
	api.On("ListActivities", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(samplePage(1, 10, 1, "1"), nil).Once()

	assert.False(t, d.ShowFullPageSpinner(), "fetch başlamadan spinner yok")
	d.FetchActivities(context.Background())

	// Act - ikinci yükleme devam ederken
	done := make(chan struct{})
	go func() {
		d.FetchActivities(context.Background())
		close(done)
	}()
	<-started

	// Assert - mevcut tablo korunur, tam sayfa spinner gösterilmez
	assert.True(t, d.Snapshot().Loading)
	assert.False(t, d.ShowFullPageSpinner())

	close(release)
	<-done
}

func TestDashboard_Export_Success(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	dl := newFakeDownloader()
	d := NewDashboard(api, new(MockPrompter), dl, WithFilters(models.Filters{Days: 90}))

	api.On("ExportCSV", mock.Anything, 90).Return([]byte("id,action\n1,create\n"), nil).Once()

	// Act
	err := d.Export(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "id,action\n1,create\n", string(dl.files["activities-export-90days.csv"]))
	assert.Equal(t, "text/csv", dl.types["activities-export-90days.csv"])
	api.AssertExpectations(t)
}

func TestDashboard_Export_FailureLeavesStateUnchanged(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	dl := newFakeDownloader()
	d := NewDashboard(api, new(MockPrompter), dl)

	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 2, "1", "2"), nil).Once()
	api.On("GetStats", mock.Anything, 30).Return(sampleStats(), nil).Once()
	api.On("GetPurgeStatus", mock.Anything).Return(sampleStatus(), nil).Once()
	api.On("ExportCSV", mock.Anything, 30).Return(nil, errors.New("upstream 500")).Once()
	d.Mount(context.Background())
	before := d.Snapshot()

	// Act
	err := d.Export(context.Background())

	// Assert
	require.Error(t, err)
	assert.Empty(t, dl.files)
	assert.Equal(t, before, d.Snapshot())
	api.AssertExpectations(t)
}

func TestDashboard_Purge_Success(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	prompter.On("Confirm", PurgeConfirmMessage(90)).Return(true).Once()
	prompter.On("Alert", "Successfully deleted 42 activity logs older than 90 days.").Once()
	api.On("ManualPurge", mock.Anything, 90).Return(&models.PurgeResult{Success: true, DeletedCount: 42}, nil).Once()

	// purge sonrası pasif fetch'ler tam bir kez
	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 3, "1", "2", "3"), nil).Once()
	api.On("GetStats", mock.Anything, 30).Return(sampleStats(), nil).Once()
	api.On("GetPurgeStatus", mock.Anything).Return(sampleStatus(), nil).Once()

	// Act
	result, err := d.Purge(context.Background(), 90)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, result.DeletedCount)
	assert.False(t, d.IsPurging())

	api.AssertNumberOfCalls(t, "ListActivities", 1)
	api.AssertNumberOfCalls(t, "GetStats", 1)
	api.AssertNumberOfCalls(t, "GetPurgeStatus", 1)
	api.AssertExpectations(t)
	prompter.AssertExpectations(t)
}

func TestDashboard_Purge_RefreshSeesButtonsEnabled(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	prompter.On("Confirm", mock.Anything).Return(true).Once()
	prompter.On("Alert", mock.Anything).Once()
	api.On("ManualPurge", mock.Anything, 30).Return(&models.PurgeResult{Success: true, DeletedCount: 5}, nil).Once()

	var purgingDuringRefresh bool
	var disabledDuringRefresh []bool
	api.On("ListActivities", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		purgingDuringRefresh = d.IsPurging()
		for _, opt := range d.View(time.Now()).PurgeOptions {
			disabledDuringRefresh = append(disabledDuringRefresh, opt.Disabled)
		}
	}).Return(samplePage(1, 10, 0), nil).Once()
	api.On("GetStats", mock.Anything, 30).Return(sampleStats(), nil).Once()
	api.On("GetPurgeStatus", mock.Anything).Return(sampleStatus(), nil).Once()

	// Act
	_, err := d.Purge(context.Background(), 30)

	// Assert
	require.NoError(t, err)
	assert.False(t, purgingDuringRefresh)
	assert.Equal(t, []bool{false, false}, disabledDuringRefresh)
	api.AssertExpectations(t)
}

func TestDashboard_WithPurging_DisablesButtonsAndRejectsPurge(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader(), WithPurging(true))

	// Act
	view := d.View(time.Now())
	_, err := d.Purge(context.Background(), 30)

	// Assert
	assert.True(t, view.Purging)
	for _, opt := range view.PurgeOptions {
		assert.True(t, opt.Disabled)
	}
	assert.ErrorIs(t, err, ErrPurgeInProgress)
	prompter.AssertNotCalled(t, "Confirm", mock.Anything)
	api.AssertNotCalled(t, "ManualPurge", mock.Anything, mock.Anything)
}

func TestDashboard_Purge_Cancelled(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	prompter.On("Confirm", mock.Anything).Return(false).Once()

	// Act
	result, err := d.Purge(context.Background(), 30)

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPurgeCancelled)
	api.AssertNotCalled(t, "ManualPurge", mock.Anything, mock.Anything)
	prompter.AssertNotCalled(t, "Alert", mock.Anything)
}

func TestDashboard_Purge_InvalidThreshold(t *testing.T) {
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	_, err := d.Purge(context.Background(), 7)

	assert.ErrorIs(t, err, ErrInvalidPurgeThreshold)
	prompter.AssertNotCalled(t, "Confirm", mock.Anything)
}

func TestDashboard_Purge_ApplicationFailure(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	prompter.On("Confirm", mock.Anything).Return(true).Once()
	prompter.On("Alert", "Failed to purge logs: purge locked").Once()
	api.On("ManualPurge", mock.Anything, 30).Return(&models.PurgeResult{Success: false, Message: "purge locked"}, nil).Once()

	// Act
	_, err := d.Purge(context.Background(), 30)

	// Assert
	assert.ErrorIs(t, err, ErrPurgeFailed)
	assert.False(t, d.IsPurging())
	api.AssertNotCalled(t, "ListActivities", mock.Anything, mock.Anything)
	prompter.AssertExpectations(t)
}

func TestDashboard_Purge_TransportFailure(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	prompter.On("Confirm", mock.Anything).Return(true).Once()
	prompter.On("Alert", "Failed to purge logs. Please try again.").Once()
	api.On("ManualPurge", mock.Anything, 90).Return(nil, errors.New("connection reset")).Once()

	// Act
	_, err := d.Purge(context.Background(), 90)

	// Assert
	assert.ErrorIs(t, err, ErrPurgeFailed)
	assert.False(t, d.IsPurging())
	prompter.AssertExpectations(t)
}

func TestDashboard_Purge_DisablesButtonsAndRejectsSecond(t *testing.T) {
	// Arrange
	api := new(MockActivityAPI)
	prompter := new(MockPrompter)
	d := NewDashboard(api, prompter, newFakeDownloader())

	started := make(chan struct{})
	release := make(chan struct{})

	prompter.On("Confirm", mock.Anything).Return(true).Once()
	prompter.On("Alert", mock.Anything).Once()
	api.On("ManualPurge", mock.Anything, 30).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&models.PurgeResult{Success: true, DeletedCount: 1}, nil).Once()
	api.On("ListActivities", mock.Anything, mock.Anything).Return(samplePage(1, 10, 0), nil).Once()
	api.On("GetStats", mock.Anything, mock.Anything).Return(sampleStats(), nil).Once()
	api.On("GetPurgeStatus", mock.Anything).Return(sampleStatus(), nil).Once()

	// Act
	done := make(chan struct{})
	go func() {
		_, _ = d.Purge(context.Background(), 30)
		close(done)
	}()
	<-started

	// Assert - istek sürerken tüm purge butonları disabled
	view := d.View(time.Now())
	assert.True(t, view.Purging)
	for _, opt := range view.PurgeOptions {
		assert.True(t, opt.Disabled)
	}

	_, err := d.Purge(context.Background(), 90)
	assert.ErrorIs(t, err, ErrPurgeInProgress)

	close(release)
	<-done

	view = d.View(time.Now())
	for _, opt := range view.PurgeOptions {
		assert.False(t, opt.Disabled)
	}
	api.AssertNumberOfCalls(t, "ManualPurge", 1)
	prompter.AssertNumberOfCalls(t, "Confirm", 1)
}

func TestBuildView(t *testing.T) {
	// Arrange
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	state := DashboardState{
		Filters:     models.Filters{Days: 30},
		Pagination:  models.Pagination{Page: 5, Limit: 10, Total: 100, Pages: 10},
		Activities:  samplePage(5, 10, 100, "41", "42").Activities,
		Stats:       sampleStats(),
		PurgeStatus: sampleStatus(),
	}

	// Act
	view := BuildView(state, now)

	// Assert
	require.Len(t, view.StatCards, 4)
	assert.Equal(t, "100", view.StatCards[0].Value)
	assert.Equal(t, "2", view.StatCards[1].Value)
	assert.Equal(t, "Product", view.StatCards[2].Value)
	assert.Equal(t, "2.0", view.StatCards[3].Value)

	require.Len(t, view.Activities, 2)
	assert.Equal(t, "2 hours ago", view.Activities[0].CreatedAtRelative)
	assert.Equal(t, "2024-03-05T10:00:00.000Z", view.Activities[0].CreatedAtISO)
	assert.Equal(t, "Create", view.Activities[0].ActionLabel)
	assert.Equal(t, "badge-success", view.Activities[0].BadgeClass)
	assert.Equal(t, "Ayşe", view.Activities[0].User)

	assert.True(t, view.HasPrev)
	assert.True(t, view.HasNext)
	assert.Equal(t, 41, view.RangeStart)
	assert.Equal(t, 42, view.RangeEnd)
	assert.Equal(t, "activities-export-30days.csv", view.ExportFilename)

	require.Len(t, view.PurgeOptions, 2)
	assert.Equal(t, 80, view.PurgeOptions[0].Eligible)
	assert.Equal(t, 20, view.PurgeOptions[1].Eligible)

	require.NotNil(t, view.PurgeStatus)
	assert.Equal(t, "N/A", view.PurgeStatus.OldestRecord)
	assert.Len(t, view.PurgeStatus.Buckets, 4)
}
