package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

// InventoryRepository is the inventory collaborator: current quantity, unit
// and unit cost per material, atomic decrement, and the append-only
// stock-history and cost-ledger sub-collections.
type InventoryRepository interface {
	GetMaterial(ctx context.Context, materialID string) (models.Material, error)
	DecrementStock(ctx context.Context, materialID string, qty float64) error
	AppendMovement(ctx context.Context, movement models.StockMovement) error
	AppendCostEntry(ctx context.Context, entry models.CostLedgerEntry) error
	ListCostEntries(ctx context.Context, batchID string) ([]models.CostLedgerEntry, error)
}

// InventoryRepo implements InventoryRepository on the shared Store.
type InventoryRepo struct {
	store *Store
}

// NewInventoryRepo binds an inventory repository to the store.
func NewInventoryRepo(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

// GetMaterial point-reads a material.
func (r *InventoryRepo) GetMaterial(ctx context.Context, materialID string) (models.Material, error) {
	var material models.Material
	err := withOp(ctx, func(ctx context.Context) error {
		err := r.store.coll(collMaterials).FindOne(ctx, bson.M{"_id": materialID}).Decode(&material)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("material %s", materialID)
		}
		return persistence("read material", err)
	})
	return material, err
}

// DecrementStock applies an atomic negative increment to the on-hand
// quantity. Lost updates between racing deductions are not possible.
func (r *InventoryRepo) DecrementStock(ctx context.Context, materialID string, qty float64) error {
	return withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collMaterials).UpdateOne(ctx,
			bson.M{"_id": materialID},
			bson.M{"$inc": bson.M{"quantity": -qty}})
		if err != nil {
			return persistence("decrement stock", err)
		}
		if res.MatchedCount == 0 {
			return errs.NotFound("material %s", materialID)
		}
		return nil
	})
}

// AppendMovement appends a stock-history row.
func (r *InventoryRepo) AppendMovement(ctx context.Context, movement models.StockMovement) error {
	if movement.ID == "" {
		movement.ID = primitive.NewObjectID().Hex()
	}
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collStockHistory).InsertOne(ctx, movement)
		return persistence("append stock movement", err)
	})
}

// AppendCostEntry appends an immutable cost-ledger row under the batch.
func (r *InventoryRepo) AppendCostEntry(ctx context.Context, entry models.CostLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collCostLedger).InsertOne(ctx, entry)
		return persistence("append cost entry", err)
	})
}

// ListCostEntries returns the batch's cost ledger ordered by time. A batch
// with no entries yields an empty slice, not an error.
func (r *InventoryRepo) ListCostEntries(ctx context.Context, batchID string) ([]models.CostLedgerEntry, error) {
	var entries []models.CostLedgerEntry
	err := withOp(ctx, func(ctx context.Context) error {
		cursor, err := r.store.coll(collCostLedger).Find(ctx,
			bson.M{"batch_id": batchID},
			options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
		if err != nil {
			return persistence("list cost entries", err)
		}
		defer cursor.Close(ctx)
		entries = nil
		return persistence("decode cost entries", cursor.All(ctx, &entries))
	})
	return entries, err
}
