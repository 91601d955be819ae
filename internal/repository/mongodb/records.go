package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skverma/milknet/internal/domain/models"
)

// RecordFilter narrows a record scan. Zero-valued fields are ignored.
// Date-range filtering over the textual SAMPLEDATE happens in the
// services, which parse the field; the store only matches exact dates.
type RecordFilter struct {
	DeviceID   string
	DeviceIDs  []string
	Code       *int
	FromCode   *int
	ToCode     *int
	SampleDate string
	Shift      string
	// ShiftFold matches SHIFT case-insensitively, for intake devices
	// that write mixed-case values.
	ShiftFold bool
}

func (f RecordFilter) query() bson.M {
	q := bson.M{}
	if f.DeviceID != "" {
		q["DEVICEID"] = f.DeviceID
	}
	if len(f.DeviceIDs) > 0 {
		q["DEVICEID"] = bson.M{"$in": f.DeviceIDs}
	}
	if f.Code != nil {
		q["CODE"] = *f.Code
	}
	if f.FromCode != nil || f.ToCode != nil {
		rangeQ := bson.M{}
		if f.FromCode != nil {
			rangeQ["$gte"] = *f.FromCode
		}
		if f.ToCode != nil {
			rangeQ["$lte"] = *f.ToCode
		}
		q["CODE"] = rangeQ
	}
	if f.SampleDate != "" {
		q["SAMPLEDATE"] = f.SampleDate
	}
	if f.Shift != "" {
		if f.ShiftFold {
			q["SHIFT"] = primitive.Regex{Pattern: "^" + f.Shift + "$", Options: "i"}
		} else {
			q["SHIFT"] = f.Shift
		}
	}
	return q
}

// RecordStore is the record query-and-scan contract the services
// consume.
type RecordStore interface {
	Find(ctx context.Context, filter RecordFilter) ([]models.Record, error)
	FindOne(ctx context.Context, deviceID string, code int, date, shift string) (models.Record, error)
	Insert(ctx context.Context, record models.Record) (models.Record, error)
	Update(ctx context.Context, id string, record models.Record) (models.Record, error)
	PresentCodes(ctx context.Context, deviceID, date, shift string) ([]int, error)
}

// RecordRepository is the MongoDB-backed RecordStore.
type RecordRepository struct {
	coll *mongo.Collection
}

// Find scans records matching the filter.
func (r *RecordRepository) Find(ctx context.Context, filter RecordFilter) ([]models.Record, error) {
	cursor, err := r.coll.Find(ctx, filter.query())
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// FindOne fetches the single record identified by device, member code,
// sample date and shift.
func (r *RecordRepository) FindOne(ctx context.Context, deviceID string, code int, date, shift string) (models.Record, error) {
	var record models.Record
	err := r.coll.FindOne(ctx, bson.M{
		"DEVICEID":   deviceID,
		"CODE":       code,
		"SAMPLEDATE": date,
		"SHIFT":      shift,
	}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Record{}, ErrNotFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("find record: %w", err)
	}
	return record, nil
}

// Insert stores a new record and returns it with the generated id.
func (r *RecordRepository) Insert(ctx context.Context, record models.Record) (models.Record, error) {
	record.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("insert record: %w", err)
	}
	return record, nil
}

// Update replaces the record fields of the document with the given id.
func (r *RecordRepository) Update(ctx context.Context, id string, record models.Record) (models.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Record{}, fmt.Errorf("invalid record id %q: %w", id, err)
	}

	record.ID = oid
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, record)
	if err != nil {
		return models.Record{}, fmt.Errorf("update record: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.Record{}, ErrNotFound
	}
	return record, nil
}

// PresentCodes returns the distinct member codes that contributed a
// record in the (device, date, shift) window.
func (r *RecordRepository) PresentCodes(ctx context.Context, deviceID, date, shift string) ([]int, error) {
	values, err := r.coll.Distinct(ctx, "CODE", bson.M{
		"DEVICEID":   deviceID,
		"SAMPLEDATE": date,
		"SHIFT":      shift,
	})
	if err != nil {
		return nil, fmt.Errorf("distinct codes: %w", err)
	}

	codes := make([]int, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int32:
			codes = append(codes, int(n))
		case int64:
			codes = append(codes, int(n))
		case float64:
			codes = append(codes, int(n))
		}
	}
	return codes, nil
}
