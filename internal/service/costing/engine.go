package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
	"github.com/mamadbah2/mycofarm/internal/repository/mongodb"
)

// literDivisor scales liter-denominated draws before pricing. Confirmed
// business rule pending product-owner review: a liter draw is charged at
// qty/10 of the unit cost, unlike every other unit.
const literDivisor = 10

// Engine translates production activities into inventory deductions and
// immutable cost-ledger entries, and computes per-batch unit economics.
type Engine struct {
	inventory    mongodb.InventoryRepository
	recipes      models.RecipeCatalog
	overheadRate decimal.Decimal
	logger       *zap.Logger
	now          func() time.Time
}

// NewEngine wires a costing engine. overheadRate is the fixed allocation
// rate applied on prime cost, e.g. 0.15.
func NewEngine(inventory mongodb.InventoryRepository, recipes models.RecipeCatalog, overheadRate float64, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		inventory:    inventory,
		recipes:      recipes,
		overheadRate: decimal.NewFromFloat(overheadRate),
		logger:       logger,
		now:          time.Now,
	}
}

// ApplyDeductions charges the activity's recipe against the batch: for each
// line it snapshots the material's current unit cost, decrements stock,
// appends a stock-history row and appends a cost-ledger entry.
//
// Once-per-batch cardinality for ordered steps is enforced by the caller
// through the step-membership guard; maintenance activities deduct on every
// call. Writes are at-least-once: a failure surfaces without rolling back
// lines already applied.
func (e *Engine) ApplyDeductions(ctx context.Context, batchID string, activity models.ActivityType) error {
	lines := e.recipes.Lines(activity.Key)
	if len(lines) == 0 {
		e.logger.Debug("activity has no recipe", zap.String("activity", activity.Key))
		return nil
	}

	now := e.now().UTC()
	for _, line := range lines {
		material, err := e.inventory.GetMaterial(ctx, line.MaterialID)
		if err != nil {
			return err
		}

		cost := costForAmount(line.Qty, material.Unit, material.UnitCost)

		if err := e.inventory.DecrementStock(ctx, material.ID, line.Qty); err != nil {
			return err
		}

		if err := e.inventory.AppendMovement(ctx, models.StockMovement{
			MaterialID: material.ID,
			BatchID:    batchID,
			Activity:   activity.Key,
			DeltaQty:   -line.Qty,
			Unit:       material.Unit,
			Timestamp:  now,
		}); err != nil {
			return err
		}

		if err := e.inventory.AppendCostEntry(ctx, models.CostLedgerEntry{
			BatchID:          batchID,
			Activity:         activity.Key,
			MaterialID:       material.ID,
			Quantity:         line.Qty,
			Unit:             material.Unit,
			UnitCostSnapshot: material.UnitCost,
			TotalCost:        cost,
			Timestamp:        now,
		}); err != nil {
			return err
		}

		e.logger.Debug("material deducted",
			zap.String("batch_id", batchID),
			zap.String("activity", activity.Key),
			zap.String("material_id", material.ID),
			zap.Float64("qty", line.Qty),
			zap.Float64("cost", cost))
	}

	return nil
}

// costForAmount prices a material draw with the unit-cost snapshot. Liter
// draws use the scaled rule described on literDivisor.
func costForAmount(qty float64, unit string, unitCost float64) float64 {
	q := decimal.NewFromFloat(qty)
	c := decimal.NewFromFloat(unitCost)
	if unit == "L" {
		q = q.Div(decimal.NewFromInt(literDivisor))
	}
	cost, _ := q.Mul(c).Float64()
	return cost
}

// Analysis is the unit-economics breakdown of a batch.
type Analysis struct {
	BatchID          string  `json:"batchId"`
	MaterialCost     float64 `json:"materialCost"`
	DirectLabor      float64 `json:"directLabor"`
	PrimeCost        float64 `json:"primeCost"`
	Overhead         float64 `json:"overhead"`
	PackagingTotal   float64 `json:"packagingTotal"`
	TotalBatchCost   float64 `json:"totalBatchCost"`
	WeightedUnitCost float64 `json:"weightedUnitCost"`
}

// LaborInput is the user-supplied labor and packaging context per analysis.
type LaborInput struct {
	LaborHours           float64
	LaborRate            float64
	OutputQty            float64
	PackagingCostPerUnit float64
}

// UnitEconomics computes the batch's cost breakdown from its cost ledger
// and the supplied labor figures. A batch with no ledger data (legacy, or
// steps recorded before cost tracking existed) degrades to materialCost=0
// instead of failing.
func (e *Engine) UnitEconomics(ctx context.Context, batchID string, input LaborInput) (Analysis, error) {
	materialCost := decimal.Zero
	entries, err := e.inventory.ListCostEntries(ctx, batchID)
	if err != nil {
		e.logger.Warn("cost ledger unavailable, assuming zero material cost", zap.String("batch_id", batchID), zap.Error(err))
	} else {
		for _, entry := range entries {
			materialCost = materialCost.Add(decimal.NewFromFloat(entry.TotalCost))
		}
	}

	directLabor := decimal.NewFromFloat(input.LaborHours).Mul(decimal.NewFromFloat(input.LaborRate))
	primeCost := materialCost.Add(directLabor)
	overhead := e.overheadRate.Mul(primeCost)
	packaging := decimal.NewFromFloat(input.OutputQty).Mul(decimal.NewFromFloat(input.PackagingCostPerUnit))
	total := materialCost.Add(directLabor).Add(packaging).Add(overhead)

	unitCost := decimal.Zero
	if input.OutputQty > 0 {
		unitCost = total.Div(decimal.NewFromFloat(input.OutputQty))
	}

	return Analysis{
		BatchID:          batchID,
		MaterialCost:     toFloat(materialCost),
		DirectLabor:      toFloat(directLabor),
		PrimeCost:        toFloat(primeCost),
		Overhead:         toFloat(overhead),
		PackagingTotal:   toFloat(packaging),
		TotalBatchCost:   toFloat(total),
		WeightedUnitCost: toFloat(unitCost),
	}, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(4).Float64()
	return f
}
