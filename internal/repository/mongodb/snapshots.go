package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skverma/milknet/internal/domain/models"
)

// SnapshotStore persists the scheduler's end-of-day rollups.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot models.DailySnapshot) error
}

// SnapshotRepository is the MongoDB-backed SnapshotStore.
type SnapshotRepository struct {
	coll *mongo.Collection
}

// Save upserts the snapshot for (device, date) so a rerun of the job
// replaces the previous rollup instead of duplicating it.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.DailySnapshot) error {
	filter := bson.M{"deviceid": snapshot.DeviceID, "date": snapshot.Date}
	_, err := r.coll.ReplaceOne(ctx, filter, snapshot, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save daily snapshot: %w", err)
	}
	return nil
}
