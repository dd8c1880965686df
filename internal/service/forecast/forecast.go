package forecast

import (
	"math"
	"time"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

// Status is the resolved readiness classification of a batch.
type Status string

const (
	StatusOnTrack      Status = "ON_TRACK"
	StatusDelayedHeat  Status = "DELAYED_HEAT"
	StatusDelayedCold  Status = "DELAYED_COLD"
	StatusDelayedDry   Status = "DELAYED_DRY"
	StatusCritical     Status = "CRITICAL"
	StatusHarvestReady Status = "HARVEST_READY"
)

// StressFlag marks a single out-of-band condition in the latest reading.
type StressFlag string

const (
	FlagHeat StressFlag = "HEAT"
	FlagCold StressFlag = "COLD"
	FlagDry  StressFlag = "DRY"
)

// Stress-day penalties per flag. Heat and Cold are mutually exclusive for a
// single reading.
const (
	heatPenaltyDays = 3
	coldPenaltyDays = 2
	dryPenaltyDays  = 2
)

// Forecast is the computed harvest outlook for one batch.
type Forecast struct {
	BatchID           string     `json:"batchId"`
	Strain            string     `json:"strain"`
	DaysElapsed       int        `json:"daysElapsed"`
	BaseRemainingDays int        `json:"baseRemainingDays"`
	StressDays        int        `json:"stressDays"`
	AdjustedRemaining int        `json:"adjustedRemainingDays"`
	PredictedDate     time.Time  `json:"predictedDate"`
	Status            Status     `json:"status"`
	Flags             []StressFlag `json:"flags,omitempty"`
}

// Compute derives the forecast from the batch, its species profile and the
// single latest environment reading. It is a pure function: no side effects,
// identical inputs always produce identical output.
func Compute(batch models.Batch, profile models.SpeciesProfile, reading models.EnvironmentReading, now time.Time) Forecast {
	daysElapsed := int(math.Ceil(now.Sub(batch.PlantedAt).Hours() / 24))
	baseRemaining := profile.CycleDays - daysElapsed
	if baseRemaining < 0 {
		baseRemaining = 0
	}

	var flags []StressFlag
	stressDays := 0
	tempStressed := false

	switch {
	case reading.Temperature > profile.MaxTemp:
		flags = append(flags, FlagHeat)
		stressDays += heatPenaltyDays
		tempStressed = true
	case reading.Temperature < profile.MinTemp:
		flags = append(flags, FlagCold)
		stressDays += coldPenaltyDays
		tempStressed = true
	}

	dryStressed := reading.Humidity < profile.MinHumidity
	if dryStressed {
		flags = append(flags, FlagDry)
		stressDays += dryPenaltyDays
	}

	var status Status
	switch {
	case tempStressed && dryStressed:
		status = StatusCritical
	case tempStressed:
		if reading.Temperature > profile.MaxTemp {
			status = StatusDelayedHeat
		} else {
			status = StatusDelayedCold
		}
	case dryStressed:
		status = StatusDelayedDry
	case baseRemaining <= 0:
		status = StatusHarvestReady
	default:
		status = StatusOnTrack
	}

	adjusted := baseRemaining + stressDays

	return Forecast{
		BatchID:           batch.ID,
		Strain:            batch.Strain,
		DaysElapsed:       daysElapsed,
		BaseRemainingDays: baseRemaining,
		StressDays:        stressDays,
		AdjustedRemaining: adjusted,
		PredictedDate:     now.AddDate(0, 0, adjusted),
		Status:            status,
		Flags:             flags,
	}
}
