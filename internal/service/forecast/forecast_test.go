package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

var testProfile = models.SpeciesProfile{MinTemp: 20, MaxTemp: 28, MinHumidity: 80, CycleDays: 21}

func plantedDaysAgo(now time.Time, days int) models.Batch {
	return models.Batch{
		ID:               "b1",
		Strain:           "oyster_grey",
		PlantedAt:        now.AddDate(0, 0, -days),
		PredictedYieldKg: 10,
	}
}

func TestCompute_HeatDelay(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	reading := models.EnvironmentReading{Temperature: 30, Humidity: 85}

	fc := Compute(plantedDaysAgo(now, 10), testProfile, reading, now)

	assert.Equal(t, 10, fc.DaysElapsed)
	assert.Equal(t, 11, fc.BaseRemainingDays)
	assert.Equal(t, []StressFlag{FlagHeat}, fc.Flags)
	assert.Equal(t, 14, fc.AdjustedRemaining)
	assert.Equal(t, StatusDelayedHeat, fc.Status)
	assert.Equal(t, now.AddDate(0, 0, 14), fc.PredictedDate)
}

func TestCompute_HarvestReady(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	reading := models.EnvironmentReading{Temperature: 24, Humidity: 82}

	fc := Compute(plantedDaysAgo(now, 25), testProfile, reading, now)

	assert.Equal(t, 0, fc.BaseRemainingDays)
	assert.Empty(t, fc.Flags)
	assert.Equal(t, 0, fc.AdjustedRemaining)
	assert.Equal(t, StatusHarvestReady, fc.Status)
}

func TestCompute_StatusResolution(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		temperature float64
		humidity    float64
		wantStatus  Status
		wantStress  int
	}{
		{"on track", 24, 85, StatusOnTrack, 0},
		{"heat only", 30, 85, StatusDelayedHeat, 3},
		{"cold only", 15, 85, StatusDelayedCold, 2},
		{"dry only", 24, 70, StatusDelayedDry, 2},
		{"heat and dry", 30, 70, StatusCritical, 5},
		{"cold and dry", 15, 70, StatusCritical, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reading := models.EnvironmentReading{Temperature: tc.temperature, Humidity: tc.humidity}
			fc := Compute(plantedDaysAgo(now, 10), testProfile, reading, now)
			assert.Equal(t, tc.wantStatus, fc.Status)
			assert.Equal(t, tc.wantStress, fc.StressDays)
			assert.Equal(t, 11+tc.wantStress, fc.AdjustedRemaining)
		})
	}
}

func TestCompute_StressBeatsHarvestReady(t *testing.T) {
	// Past the cycle end, a stressed reading still classifies as delayed,
	// never as ready.
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	reading := models.EnvironmentReading{Temperature: 30, Humidity: 85}

	fc := Compute(plantedDaysAgo(now, 25), testProfile, reading, now)

	assert.Equal(t, 0, fc.BaseRemainingDays)
	assert.Equal(t, StatusDelayedHeat, fc.Status)
	assert.Equal(t, 3, fc.AdjustedRemaining)
}

func TestCompute_PartialDayRoundsUp(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	batch := models.Batch{PlantedAt: now.Add(-36 * time.Hour), PredictedYieldKg: 5}
	reading := models.EnvironmentReading{Temperature: 24, Humidity: 85}

	fc := Compute(batch, testProfile, reading, now)

	assert.Equal(t, 2, fc.DaysElapsed)
	assert.Equal(t, 19, fc.BaseRemainingDays)
}

func TestCompute_IsPure(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	batch := plantedDaysAgo(now, 10)
	reading := models.EnvironmentReading{Temperature: 30, Humidity: 70}

	first := Compute(batch, testProfile, reading, now)
	second := Compute(batch, testProfile, reading, now)

	assert.Equal(t, first, second)
}
