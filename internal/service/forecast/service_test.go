package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

type fakeBatchLister struct {
	batches []models.Batch
	err     error
}

func (f *fakeBatchLister) ListBatches(ctx context.Context, site string) ([]models.Batch, error) {
	return f.batches, f.err
}

func (f *fakeBatchLister) CreateBatch(context.Context, models.Batch) error { return nil }
func (f *fakeBatchLister) GetBatch(context.Context, string) (models.Batch, error) {
	return models.Batch{}, errs.NotFound("not implemented")
}
func (f *fakeBatchLister) AddStep(context.Context, string, models.ProductionStep) (bool, error) {
	return false, nil
}
func (f *fakeBatchLister) IncrementYield(context.Context, string, float64) error   { return nil }
func (f *fakeBatchLister) IncrementWastage(context.Context, string, float64) error { return nil }
func (f *fakeBatchLister) SetPredictedYield(context.Context, string, float64) error {
	return nil
}
func (f *fakeBatchLister) AppendActivity(context.Context, models.ActivityEntry) error { return nil }
func (f *fakeBatchLister) InsertWastage(context.Context, models.WastageEntry) (string, error) {
	return "", nil
}
func (f *fakeBatchLister) GetWastage(context.Context, string) (models.WastageEntry, error) {
	return models.WastageEntry{}, errs.NotFound("not implemented")
}
func (f *fakeBatchLister) UpdateWastage(context.Context, string, float64, string) error {
	return nil
}

type fakeEnvironment struct {
	readings []models.EnvironmentReading
	err      error
}

func (f *fakeEnvironment) InsertReading(context.Context, models.EnvironmentReading) error {
	return nil
}

func (f *fakeEnvironment) LatestReadings(ctx context.Context, site string, limit int) ([]models.EnvironmentReading, error) {
	return f.readings, f.err
}

func newTestService(batches *fakeBatchLister, env *fakeEnvironment, now time.Time) *Service {
	svc := NewService(batches, env, models.DefaultSpeciesCatalog(), nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestForecastSite_SortedSoonestFirst(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	batches := &fakeBatchLister{batches: []models.Batch{
		{ID: "late", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -3), PredictedYieldKg: 10},
		{ID: "soon", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -19), PredictedYieldKg: 10},
	}}
	env := &fakeEnvironment{readings: []models.EnvironmentReading{
		{Temperature: 24, Humidity: 85, Timestamp: now},
	}}

	forecasts, err := newTestService(batches, env, now).ForecastSite(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, forecasts, 2)
	assert.Equal(t, "soon", forecasts[0].BatchID)
	assert.Equal(t, "late", forecasts[1].BatchID)
	assert.LessOrEqual(t, forecasts[0].AdjustedRemaining, forecasts[1].AdjustedRemaining)
}

func TestForecastSite_SkipsUntrackedAndCompleted(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	batches := &fakeBatchLister{batches: []models.Batch{
		{ID: "untracked", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -5)},
		{ID: "done", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -5), PredictedYieldKg: 5, ActualYieldKg: 4, WastageKg: 1.5},
		{ID: "open", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -5), PredictedYieldKg: 5},
	}}
	env := &fakeEnvironment{readings: []models.EnvironmentReading{
		{Temperature: 24, Humidity: 85, Timestamp: now},
	}}

	forecasts, err := newTestService(batches, env, now).ForecastSite(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, "open", forecasts[0].BatchID)
}

func TestForecastSite_NoReadingsDegradesToEmpty(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	batches := &fakeBatchLister{batches: []models.Batch{
		{ID: "b1", Strain: "oyster_grey", PlantedAt: now.AddDate(0, 0, -5), PredictedYieldKg: 5},
	}}

	t.Run("feed unavailable", func(t *testing.T) {
		env := &fakeEnvironment{err: errs.Persistence("env feed down", nil)}
		forecasts, err := newTestService(batches, env, now).ForecastSite(context.Background(), "main")
		require.NoError(t, err)
		assert.Empty(t, forecasts)
	})

	t.Run("no readings yet", func(t *testing.T) {
		env := &fakeEnvironment{}
		forecasts, err := newTestService(batches, env, now).ForecastSite(context.Background(), "main")
		require.NoError(t, err)
		assert.Empty(t, forecasts)
	})
}

func TestForecastSite_BatchListErrorSurfaces(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	batches := &fakeBatchLister{err: errs.Persistence("store down", nil)}
	env := &fakeEnvironment{}

	_, err := newTestService(batches, env, now).ForecastSite(context.Background(), "main")
	assert.True(t, errs.IsPersistence(err))
}
