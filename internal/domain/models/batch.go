package models

import "time"

// ProductionStep enumerates the ordered preparation steps of a batch.
type ProductionStep string

const (
	StepSubstratePrep   ProductionStep = "SUBSTRATE_PREP"
	StepSubstrateMixing ProductionStep = "SUBSTRATE_MIXING"
	StepSpawning        ProductionStep = "SPAWNING"
)

// stepOrder fixes the prerequisite chain PREP -> MIXING -> SPAWNING.
var stepOrder = []ProductionStep{StepSubstratePrep, StepSubstrateMixing, StepSpawning}

// IsValid checks membership in the ordered step set.
func (s ProductionStep) IsValid() bool {
	switch s {
	case StepSubstratePrep, StepSubstrateMixing, StepSpawning:
		return true
	}
	return false
}

// Prerequisite returns the step that must already be present before s may be
// added, or "" for the initial step.
func (s ProductionStep) Prerequisite() ProductionStep {
	for i, step := range stepOrder {
		if step == s && i > 0 {
			return stepOrder[i-1]
		}
	}
	return ""
}

// Batch is one production run. It is a permanent accounting record: it is
// never deleted and never "closed", only classified by its derived state.
type Batch struct {
	ID               string         `bson:"_id" json:"id"`
	Site             string         `bson:"site" json:"site"`
	Strain           string         `bson:"strain" json:"strain"`
	Notes            string         `bson:"notes,omitempty" json:"notes,omitempty"`
	PlantedAt        time.Time      `bson:"planted_at" json:"plantedAt"`
	PredictedYieldKg float64        `bson:"predicted_yield_kg" json:"predictedYieldKg"`
	ActualYieldKg    float64        `bson:"actual_yield_kg" json:"actualYieldKg"`
	WastageKg        float64        `bson:"wastage_kg" json:"wastageKg"`
	StepsCompleted   []ProductionStep `bson:"steps_completed" json:"stepsCompleted"`
	CreatedAt        time.Time      `bson:"created_at" json:"createdAt"`
}

// HasStep reports whether the ordered step set already contains step.
func (b Batch) HasStep(step ProductionStep) bool {
	for _, s := range b.StepsCompleted {
		if s == step {
			return true
		}
	}
	return false
}

// TotalOutputKg is harvested plus wasted weight.
func (b Batch) TotalOutputKg() float64 {
	return b.ActualYieldKg + b.WastageKg
}

// IsCompleted is a derived classification, never a stored transition. An
// untracked batch (PredictedYieldKg == 0) is never completed.
func (b Batch) IsCompleted() bool {
	return b.PredictedYieldKg > 0 && b.TotalOutputKg() >= b.PredictedYieldKg
}

// ActivityEntry is an append-only log row under a batch. Immutable once written.
type ActivityEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	BatchID   string    `bson:"batch_id" json:"batchId"`
	Type      string    `bson:"type" json:"type"`
	Details   string    `bson:"details,omitempty" json:"details,omitempty"`
	ActorID   string    `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// WastageEntry records wasted output. Unlike activities it supports
// correction: edits apply the weight delta to the parent batch, they never
// overwrite the running total.
type WastageEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	BatchID   string    `bson:"batch_id" json:"batchId"`
	WeightKg  float64   `bson:"weight_kg" json:"weightKg"`
	Reason    string    `bson:"reason" json:"reason"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
