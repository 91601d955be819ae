package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	recordsCollection   = "records"
	devicesCollection   = "devicesList"
	dairiesCollection   = "dairies"
	snapshotsCollection = "daily_snapshots"
)

// ErrNotFound is returned when a referenced document does not exist.
// Callers treat it differently from an empty query result.
var ErrNotFound = errors.New("document not found")

// Store wraps the shared MongoDB client the repositories hang off.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Records returns the record repository bound to this store.
func (s *Store) Records() *RecordRepository {
	return &RecordRepository{coll: s.db.Collection(recordsCollection)}
}

// Devices returns the device repository bound to this store.
func (s *Store) Devices() *DeviceRepository {
	return &DeviceRepository{coll: s.db.Collection(devicesCollection)}
}

// Dairies returns the dairy repository bound to this store.
func (s *Store) Dairies() *DairyRepository {
	return &DairyRepository{coll: s.db.Collection(dairiesCollection)}
}

// Snapshots returns the daily snapshot repository bound to this store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{coll: s.db.Collection(snapshotsCollection)}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
