package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

// EnvironmentRepository is the environment-feed collaborator: immutable
// readings appended over time, queried newest first.
type EnvironmentRepository interface {
	InsertReading(ctx context.Context, reading models.EnvironmentReading) error
	LatestReadings(ctx context.Context, site string, limit int) ([]models.EnvironmentReading, error)
}

// EnvironmentRepo implements EnvironmentRepository on the shared Store.
type EnvironmentRepo struct {
	store *Store
}

// NewEnvironmentRepo binds an environment repository to the store.
func NewEnvironmentRepo(store *Store) *EnvironmentRepo {
	return &EnvironmentRepo{store: store}
}

// InsertReading appends a reading. Readings are never updated.
func (r *EnvironmentRepo) InsertReading(ctx context.Context, reading models.EnvironmentReading) error {
	if reading.ID == "" {
		reading.ID = primitive.NewObjectID().Hex()
	}
	return withOp(ctx, func(ctx context.Context) error {
		_, err := r.store.coll(collEnvironment).InsertOne(ctx, reading)
		return persistence("insert environment reading", err)
	})
}

// LatestReadings returns up to limit readings for a site, newest first.
func (r *EnvironmentRepo) LatestReadings(ctx context.Context, site string, limit int) ([]models.EnvironmentReading, error) {
	filter := bson.M{}
	if site != "" {
		filter["site"] = site
	}

	var readings []models.EnvironmentReading
	err := withOp(ctx, func(ctx context.Context) error {
		cursor, err := r.store.coll(collEnvironment).Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "timestamp", Value: -1}}).
				SetLimit(int64(limit)))
		if err != nil {
			return persistence("list environment readings", err)
		}
		defer cursor.Close(ctx)
		readings = nil
		return persistence("decode environment readings", cursor.All(ctx, &readings))
	})
	return readings, err
}
