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

// BatchRepository is the document-store contract for batch records, their
// activity log and their wastage entries.
type BatchRepository interface {
	CreateBatch(ctx context.Context, batch models.Batch) error
	GetBatch(ctx context.Context, id string) (models.Batch, error)
	ListBatches(ctx context.Context, site string) ([]models.Batch, error)
	// AddStep appends the step to the ordered set. Returns false without
	// error when the step was already present.
	AddStep(ctx context.Context, id string, step models.ProductionStep) (bool, error)
	IncrementYield(ctx context.Context, id string, deltaKg float64) error
	IncrementWastage(ctx context.Context, id string, deltaKg float64) error
	SetPredictedYield(ctx context.Context, id string, yieldKg float64) error
	AppendActivity(ctx context.Context, entry models.ActivityEntry) error
	InsertWastage(ctx context.Context, entry models.WastageEntry) (string, error)
	GetWastage(ctx context.Context, entryID string) (models.WastageEntry, error)
	UpdateWastage(ctx context.Context, entryID string, weightKg float64, reason string) error
}

// BatchRepo implements BatchRepository on the shared Store.
type BatchRepo struct {
	store *Store
}

// NewBatchRepo binds a batch repository to the store.
func NewBatchRepo(store *Store) *BatchRepo {
	return &BatchRepo{store: store}
}

// CreateBatch inserts the batch document.
func (r *BatchRepo) CreateBatch(ctx context.Context, batch models.Batch) error {
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collBatches).InsertOne(ctx, batch)
		return persistence("insert batch", err)
	})
}

// GetBatch point-reads a batch by id.
func (r *BatchRepo) GetBatch(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	err := withOp(ctx, func(ctx context.Context) error {
		err := r.store.coll(collBatches).FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("batch %s", id)
		}
		return persistence("read batch", err)
	})
	return batch, err
}

// ListBatches returns every batch of a site; an empty site matches all.
func (r *BatchRepo) ListBatches(ctx context.Context, site string) ([]models.Batch, error) {
	filter := bson.M{}
	if site != "" {
		filter["site"] = site
	}

	var batches []models.Batch
	err := withOp(ctx, func(ctx context.Context) error {
		cursor, err := r.store.coll(collBatches).Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "planted_at", Value: 1}}))
		if err != nil {
			return persistence("list batches", err)
		}
		defer cursor.Close(ctx)
		batches = nil
		return persistence("decode batches", cursor.All(ctx, &batches))
	})
	return batches, err
}

// AddStep pushes the step only when it is not yet present, so a duplicate
// call reports modified=false instead of appending twice.
func (r *BatchRepo) AddStep(ctx context.Context, id string, step models.ProductionStep) (bool, error) {
	var added bool
	err := withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collBatches).UpdateOne(ctx,
			bson.M{"_id": id, "steps_completed": bson.M{"$ne": step}},
			bson.M{"$push": bson.M{"steps_completed": step}})
		if err != nil {
			return persistence("add step", err)
		}
		added = res.ModifiedCount > 0
		return nil
	})
	return added, err
}

// IncrementYield applies the harvest delta with the store's atomic increment
// so racing weigh-ins never lose updates.
func (r *BatchRepo) IncrementYield(ctx context.Context, id string, deltaKg float64) error {
	return r.increment(ctx, id, "actual_yield_kg", deltaKg)
}

// IncrementWastage applies the wastage delta atomically.
func (r *BatchRepo) IncrementWastage(ctx context.Context, id string, deltaKg float64) error {
	return r.increment(ctx, id, "wastage_kg", deltaKg)
}

func (r *BatchRepo) increment(ctx context.Context, id, field string, delta float64) error {
	return withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collBatches).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$inc": bson.M{field: delta}})
		if err != nil {
			return persistence("increment "+field, err)
		}
		if res.MatchedCount == 0 {
			return errs.NotFound("batch %s", id)
		}
		return nil
	})
}

// SetPredictedYield overwrites the forecast target. Reserved for the
// audit-logged administrative correction path.
func (r *BatchRepo) SetPredictedYield(ctx context.Context, id string, yieldKg float64) error {
	return withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collBatches).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"predicted_yield_kg": yieldKg}})
		if err != nil {
			return persistence("set predicted yield", err)
		}
		if res.MatchedCount == 0 {
			return errs.NotFound("batch %s", id)
		}
		return nil
	})
}

// AppendActivity appends to the immutable activity log.
func (r *BatchRepo) AppendActivity(ctx context.Context, entry models.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collActivities).InsertOne(ctx, entry)
		return persistence("append activity", err)
	})
}

// InsertWastage stores a wastage entry and returns its id.
func (r *BatchRepo) InsertWastage(ctx context.Context, entry models.WastageEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	err := withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collWastage).InsertOne(ctx, entry)
		return persistence("insert wastage entry", err)
	})
	return entry.ID, err
}

// GetWastage point-reads a wastage entry.
func (r *BatchRepo) GetWastage(ctx context.Context, entryID string) (models.WastageEntry, error) {
	var entry models.WastageEntry
	err := withOp(ctx, func(ctx context.Context) error {
		err := r.store.coll(collWastage).FindOne(ctx, bson.M{"_id": entryID}).Decode(&entry)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("wastage entry %s", entryID)
		}
		return persistence("read wastage entry", err)
	})
	return entry, err
}

// UpdateWastage rewrites the entry's weight and reason. The caller applies
// the weight delta to the batch separately.
func (r *BatchRepo) UpdateWastage(ctx context.Context, entryID string, weightKg float64, reason string) error {
	return withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collWastage).UpdateOne(ctx,
			bson.M{"_id": entryID},
			bson.M{"$set": bson.M{"weight_kg": weightKg, "reason": reason}})
		if err != nil {
			return persistence("update wastage entry", err)
		}
		if res.MatchedCount == 0 {
			return errs.NotFound("wastage entry %s", entryID)
		}
		return nil
	})
}
