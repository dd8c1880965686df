package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/mycofarm/internal/domain/errs"
)

const (
	collBatches      = "batches"
	collActivities   = "activities"
	collWastage      = "wastage_entries"
	collMaterials    = "materials"
	collStockHistory = "stock_history"
	collCostLedger   = "cost_ledger"
	collFinancial    = "financial_records"
	collEnvironment  = "environment_readings"
	collSnapshots    = "daily_snapshots"
)

// opTimeout bounds every store call; reporting reads are abandoned rather
// than blocked past it.
const opTimeout = 5 * time.Second

// Store wraps the MongoDB connection shared by the per-concern repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// withOp applies the per-call timeout and at most one retry for transient
// network failures. Precondition failures are never retried.
func withOp(ctx context.Context, fn func(context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := fn(opCtx)
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		retryCtx, retryCancel := context.WithTimeout(ctx, opTimeout)
		defer retryCancel()
		err = fn(retryCtx)
	}
	return err
}

func persistence(msg string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Persistence(msg, err)
}
