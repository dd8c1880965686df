package yield

import "github.com/mamadbah2/mycofarm/internal/domain/models"

// Grade bands harvested output by weight.
type Grade string

const (
	GradeExcellent Grade = "EXCELLENT"
	GradeGood      Grade = "GOOD"
	GradeViable    Grade = "VIABLE"
	GradeLow       Grade = "LOW"
)

// Thresholds are the lower bounds of the grade bands, in kilograms.
type Thresholds struct {
	Excellent float64
	Good      float64
	Viable    float64
}

// DefaultThresholds returns the stock grade bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 8, Good: 6, Viable: 4}
}

// Summary is the derived reconciliation view of a batch. All fields are
// computed here, in one place, rather than ad hoc at call sites.
type Summary struct {
	BatchID           string  `json:"batchId"`
	EfficiencyPercent float64 `json:"efficiencyPercent"`
	IsCompleted       bool    `json:"isCompleted"`
	Grade             Grade   `json:"grade"`
	WastageCandidate  bool    `json:"wastageCandidate"`
	DeficitKg         float64 `json:"deficitKg"`
}

// Reconcile derives completion status, efficiency and grading from a batch
// record. Untracked batches (PredictedYieldKg == 0) report zero efficiency
// and are never completed nor wastage candidates.
func Reconcile(batch models.Batch, thresholds Thresholds) Summary {
	summary := Summary{
		BatchID:     batch.ID,
		IsCompleted: batch.IsCompleted(),
		Grade:       gradeFor(batch.ActualYieldKg, thresholds),
	}

	if batch.PredictedYieldKg > 0 {
		summary.EfficiencyPercent = batch.ActualYieldKg / batch.PredictedYieldKg * 100
		deficit := batch.PredictedYieldKg - batch.TotalOutputKg()
		if deficit > 0 {
			summary.WastageCandidate = true
			summary.DeficitKg = deficit
		}
	}

	return summary
}

func gradeFor(actualKg float64, t Thresholds) Grade {
	switch {
	case actualKg >= t.Excellent:
		return GradeExcellent
	case actualKg >= t.Good:
		return GradeGood
	case actualKg >= t.Viable:
		return GradeViable
	default:
		return GradeLow
	}
}
