package mongodb

import (
	"context"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

// SnapshotRepository persists the scheduler's daily financial snapshots.
type SnapshotRepository interface {
	SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// SnapshotRepo implements SnapshotRepository on the shared Store.
type SnapshotRepo struct {
	store *Store
}

// NewSnapshotRepo binds a snapshot repository to the store.
func NewSnapshotRepo(store *Store) *SnapshotRepo {
	return &SnapshotRepo{store: store}
}

// SaveDailySnapshot saves a daily snapshot to the database.
func (r *SnapshotRepo) SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collSnapshots).InsertOne(ctx, snapshot)
		return persistence("insert daily snapshot", err)
	})
}
