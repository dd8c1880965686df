package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

// LedgerRepository is the ledger collaborator for FinancialRecords:
// creation, status transitions, and site/date-range queries.
type LedgerRepository interface {
	CreateRecord(ctx context.Context, record models.FinancialRecord) (string, error)
	SettleRecord(ctx context.Context, recordID string) error
	ListRecords(ctx context.Context, site string, from, to time.Time) ([]models.FinancialRecord, error)
}

// LedgerRepo implements LedgerRepository on the shared Store.
type LedgerRepo struct {
	store *Store
}

// NewLedgerRepo binds a ledger repository to the store.
func NewLedgerRepo(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// CreateRecord inserts a financial record and returns its id.
func (r *LedgerRepo) CreateRecord(ctx context.Context, record models.FinancialRecord) (string, error) {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	err := withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collFinancial).InsertOne(ctx, record)
		return persistence("insert financial record", err)
	})
	return record.ID, err
}

// SettleRecord transitions a PENDING record to COMPLETED. The status filter
// is the precondition: a record already settled is not matched.
func (r *LedgerRepo) SettleRecord(ctx context.Context, recordID string) error {
	return withOp(ctx, func(ctx context.Context) error {
		res, err := r.store.coll(collFinancial).UpdateOne(ctx,
			bson.M{"_id": recordID, "status": models.StatusPending},
			bson.M{"$set": bson.M{"status": models.StatusCompleted}})
		if err != nil {
			return persistence("settle financial record", err)
		}
		if res.MatchedCount == 0 {
			return errs.NotFound("pending financial record %s", recordID)
		}
		return nil
	})
}

// ListRecords queries a site's records in [from, to], all statuses.
func (r *LedgerRepo) ListRecords(ctx context.Context, site string, from, to time.Time) ([]models.FinancialRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	if site != "" {
		filter["site"] = site
	}

	var records []models.FinancialRecord
	err := withOp(ctx, func(ctx context.Context) error {
		cursor, err := r.store.coll(collFinancial).Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
		if err != nil {
			return persistence("list financial records", err)
		}
		defer cursor.Close(ctx)
		records = nil
		return persistence("decode financial records", cursor.All(ctx, &records))
	})
	return records, err
}
