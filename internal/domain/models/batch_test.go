package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductionStep_Prerequisite(t *testing.T) {
	assert.Equal(t, ProductionStep(""), StepSubstratePrep.Prerequisite())
	assert.Equal(t, StepSubstratePrep, StepSubstrateMixing.Prerequisite())
	assert.Equal(t, StepSubstrateMixing, StepSpawning.Prerequisite())
}

func TestProductionStep_IsValid(t *testing.T) {
	assert.True(t, StepSubstratePrep.IsValid())
	assert.True(t, StepSpawning.IsValid())
	assert.False(t, ProductionStep("FRUITING").IsValid())
	assert.False(t, ProductionStep("").IsValid())
}

func TestBatch_Derived(t *testing.T) {
	b := Batch{PredictedYieldKg: 10, ActualYieldKg: 6, WastageKg: 4}
	assert.InDelta(t, 10.0, b.TotalOutputKg(), 1e-9)
	assert.True(t, b.IsCompleted())

	untracked := Batch{ActualYieldKg: 100}
	assert.False(t, untracked.IsCompleted())
}

func TestBatch_HasStep(t *testing.T) {
	b := Batch{StepsCompleted: []ProductionStep{StepSubstratePrep, StepSubstrateMixing}}
	assert.True(t, b.HasStep(StepSubstrateMixing))
	assert.False(t, b.HasStep(StepSpawning))
}

func TestActivityTypeFor(t *testing.T) {
	step, ok := ActivityTypeFor("SPAWNING")
	assert.True(t, ok)
	assert.Equal(t, DeductOncePerBatch, step.Policy)

	watering, ok := ActivityTypeFor("WATERING")
	assert.True(t, ok)
	assert.Equal(t, DeductPerEvent, watering.Policy)

	_, ok = ActivityTypeFor("PRUNING")
	assert.False(t, ok)
}

func TestRecordEnums(t *testing.T) {
	assert.True(t, RecordIncome.IsValid())
	assert.False(t, RecordType("TRANSFER").IsValid())

	assert.True(t, CategorySales.IsValid())
	assert.False(t, RecordCategory("RENT").IsValid())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestCatalogs(t *testing.T) {
	species := DefaultSpeciesCatalog()
	profile, ok := species.Profile("oyster_grey")
	assert.True(t, ok)
	assert.Equal(t, 21, profile.CycleDays)

	_, ok = species.Profile("unknown")
	assert.False(t, ok)

	recipes := DefaultRecipeCatalog()
	assert.NotEmpty(t, recipes.Lines(ActivitySubstratePrep.Key))
	assert.Nil(t, recipes.Lines("NOT_AN_ACTIVITY"))
}
