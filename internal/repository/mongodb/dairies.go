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

// DairyStore is the dairy document contract the services consume.
type DairyStore interface {
	FindByCode(ctx context.Context, dairyCode string) (models.Dairy, error)
	FindByEmail(ctx context.Context, email string) (models.Dairy, error)
	FindByID(ctx context.Context, id string) (models.Dairy, error)
	Insert(ctx context.Context, dairy models.Dairy) error
	Delete(ctx context.Context, dairyCode string) error
	SetRateTable(ctx context.Context, dairyCode, kind string, table interface{}) error
}

// DairyRepository is the MongoDB-backed DairyStore.
type DairyRepository struct {
	coll *mongo.Collection
}

func (r *DairyRepository) findOne(ctx context.Context, filter bson.M) (models.Dairy, error) {
	var dairy models.Dairy
	err := r.coll.FindOne(ctx, filter).Decode(&dairy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Dairy{}, ErrNotFound
	}
	if err != nil {
		return models.Dairy{}, fmt.Errorf("find dairy: %w", err)
	}
	return dairy, nil
}

// FindByCode fetches a dairy by its three-letter code.
func (r *DairyRepository) FindByCode(ctx context.Context, dairyCode string) (models.Dairy, error) {
	return r.findOne(ctx, bson.M{"dairyCode": dairyCode})
}

// FindByEmail fetches a dairy by login email, case-insensitively.
func (r *DairyRepository) FindByEmail(ctx context.Context, email string) (models.Dairy, error) {
	return r.findOne(ctx, bson.M{"email": primitive.Regex{Pattern: "^" + email + "$", Options: "i"}})
}

// FindByID fetches a dairy by document id.
func (r *DairyRepository) FindByID(ctx context.Context, id string) (models.Dairy, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Dairy{}, fmt.Errorf("invalid dairy id %q: %w", id, err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// Insert registers a new dairy document.
func (r *DairyRepository) Insert(ctx context.Context, dairy models.Dairy) error {
	if _, err := r.coll.InsertOne(ctx, dairy); err != nil {
		return fmt.Errorf("insert dairy: %w", err)
	}
	return nil
}

// Delete removes a dairy document.
func (r *DairyRepository) Delete(ctx context.Context, dairyCode string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"dairyCode": dairyCode})
	if err != nil {
		return fmt.Errorf("delete dairy: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRateTable replaces one of the dairy-level rate tables wholesale.
func (r *DairyRepository) SetRateTable(ctx context.Context, dairyCode, kind string, table interface{}) error {
	if _, ok := tableFields[kind]; !ok {
		return fmt.Errorf("unknown rate table kind %q", kind)
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"dairyCode": dairyCode}, bson.M{"$set": bson.M{kind: table}})
	if err != nil {
		return fmt.Errorf("set dairy rate table: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
