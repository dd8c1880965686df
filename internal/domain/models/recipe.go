package models

// DeductionPolicy marks how often an activity charges its recipe against a
// batch: ordered steps deduct exactly once per batch, maintenance activities
// deduct on every logged event.
type DeductionPolicy string

const (
	DeductOncePerBatch DeductionPolicy = "ONCE_PER_BATCH"
	DeductPerEvent     DeductionPolicy = "PER_EVENT"
)

// ActivityType is the closed set of production activities that can consume
// materials. The policy tag keeps the once-vs-every guard data-driven.
type ActivityType struct {
	Key    string
	Policy DeductionPolicy
}

var (
	ActivitySubstratePrep   = ActivityType{Key: string(StepSubstratePrep), Policy: DeductOncePerBatch}
	ActivitySubstrateMixing = ActivityType{Key: string(StepSubstrateMixing), Policy: DeductOncePerBatch}
	ActivitySpawning        = ActivityType{Key: string(StepSpawning), Policy: DeductOncePerBatch}
	ActivityWatering        = ActivityType{Key: "WATERING", Policy: DeductPerEvent}
	ActivityRehydration     = ActivityType{Key: "REHYDRATION", Policy: DeductPerEvent}
	ActivityOther           = ActivityType{Key: "OTHER", Policy: DeductPerEvent}
)

// ActivityTypeFor resolves an activity key to its typed variant.
func ActivityTypeFor(key string) (ActivityType, bool) {
	for _, a := range []ActivityType{
		ActivitySubstratePrep, ActivitySubstrateMixing, ActivitySpawning,
		ActivityWatering, ActivityRehydration, ActivityOther,
	} {
		if a.Key == key {
			return a, true
		}
	}
	return ActivityType{}, false
}

// RecipeLine is one material draw within an activity's recipe.
type RecipeLine struct {
	MaterialID string
	Qty        float64
}

// RecipeCatalog maps an activity key to the materials it consumes per
// application. Immutable once built, passed into the costing engine as
// configuration.
type RecipeCatalog map[string][]RecipeLine

// Lines returns the recipe for an activity; a nil slice means the activity
// consumes nothing.
func (c RecipeCatalog) Lines(activity string) []RecipeLine {
	return c[activity]
}

// DefaultRecipeCatalog returns the stock recipe table.
func DefaultRecipeCatalog() RecipeCatalog {
	return RecipeCatalog{
		ActivitySubstratePrep.Key: {
			{MaterialID: "sawdust", Qty: 10},
			{MaterialID: "lime", Qty: 0.5},
		},
		ActivitySubstrateMixing.Key: {
			{MaterialID: "bran", Qty: 2},
			{MaterialID: "gypsum", Qty: 0.3},
		},
		ActivitySpawning.Key: {
			{MaterialID: "spawn", Qty: 1.5},
			{MaterialID: "grow_bags", Qty: 20},
		},
		ActivityWatering.Key: {
			{MaterialID: "water", Qty: 15},
		},
		ActivityRehydration.Key: {
			{MaterialID: "water", Qty: 30},
			{MaterialID: "nutrient_mix", Qty: 0.2},
		},
	}
}
