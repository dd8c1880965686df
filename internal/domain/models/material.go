package models

import "time"

// Material is an inventory item consumed by production activities.
type Material struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"`
	UnitCost float64 `bson:"unit_cost" json:"unitCost"`
}

// StockMovement is an append-only stock-history row for a material.
type StockMovement struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	MaterialID string    `bson:"material_id" json:"materialId"`
	BatchID    string    `bson:"batch_id,omitempty" json:"batchId,omitempty"`
	Activity   string    `bson:"activity" json:"activity"`
	DeltaQty   float64   `bson:"delta_qty" json:"deltaQty"`
	Unit       string    `bson:"unit" json:"unit"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// CostLedgerEntry is the immutable cost record appended per deduction. The
// unit-cost snapshot taken at deduction time stays authoritative even if the
// material is later repriced.
type CostLedgerEntry struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	BatchID          string    `bson:"batch_id" json:"batchId"`
	Activity         string    `bson:"activity" json:"activity"`
	MaterialID       string    `bson:"material_id" json:"materialId"`
	Quantity         float64   `bson:"quantity" json:"quantity"`
	Unit             string    `bson:"unit" json:"unit"`
	UnitCostSnapshot float64   `bson:"unit_cost_snapshot" json:"unitCostSnapshot"`
	TotalCost        float64   `bson:"total_cost" json:"totalCost"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
}
