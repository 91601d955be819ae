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

// tableFields maps a rate-table kind to the metadata field paths
// updated alongside the table body. Keeping every table in the owner
// document, keyed by kind, avoids per-owner dynamically named
// collections.
var tableFields = map[string]struct {
	chartID   string
	effective string
	flag      string
}{
	models.TableFatCow: {"rateChartIds.fatCowId", "effectiveDates.fatCowEffectiveDate", "isDeviceRateTable.fatCowTable"},
	models.TableFatBuf: {"rateChartIds.fatBufId", "effectiveDates.fatBufEffectiveDate", "isDeviceRateTable.fatBufTable"},
	models.TableSnfCow: {"rateChartIds.snfCowId", "effectiveDates.snfCowEffectiveDate", "isDeviceRateTable.snfCowTable"},
	models.TableSnfBuf: {"rateChartIds.snfBufId", "effectiveDates.snfBufEffectiveDate", "isDeviceRateTable.snfBufTable"},
	models.TableClrCow: {"rateChartIds.clrCowId", "effectiveDates.clrCowEffectiveDate", "isDeviceRateTable.clrCowTable"},
}

// DeviceStore is the device and roster contract the services consume.
type DeviceStore interface {
	FindByDeviceID(ctx context.Context, deviceID string) (models.Device, error)
	FindByEmail(ctx context.Context, email string) (models.Device, error)
	FindByID(ctx context.Context, id string) (models.Device, error)
	FindOwned(ctx context.Context, dairyCode, deviceID string) (models.Device, error)
	Insert(ctx context.Context, device models.Device) error
	Delete(ctx context.Context, deviceID string) error
	ListDeviceIDs(ctx context.Context) ([]string, error)
	ReplaceMembers(ctx context.Context, deviceID string, members []models.Member) error
	AddMember(ctx context.Context, deviceID string, member models.Member) error
	UpdateMember(ctx context.Context, deviceID string, member models.Member) error
	RemoveMember(ctx context.Context, deviceID string, code int, milkType string) error
	ApplyRateTable(ctx context.Context, deviceID, kind string, table interface{}, chartID int, effectiveDate string) error
	ApplyDairyTableMeta(ctx context.Context, dairyCode, kind string, chartID int, effectiveDate string) error
}

// DeviceRepository is the MongoDB-backed DeviceStore.
type DeviceRepository struct {
	coll *mongo.Collection
}

func (r *DeviceRepository) findOne(ctx context.Context, filter bson.M) (models.Device, error) {
	var device models.Device
	err := r.coll.FindOne(ctx, filter).Decode(&device)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Device{}, ErrNotFound
	}
	if err != nil {
		return models.Device{}, fmt.Errorf("find device: %w", err)
	}
	return device, nil
}

// FindByDeviceID fetches a device by its device identifier.
func (r *DeviceRepository) FindByDeviceID(ctx context.Context, deviceID string) (models.Device, error) {
	return r.findOne(ctx, bson.M{"deviceid": deviceID})
}

// FindByEmail fetches a device by login email, case-insensitively.
func (r *DeviceRepository) FindByEmail(ctx context.Context, email string) (models.Device, error) {
	return r.findOne(ctx, bson.M{"email": primitive.Regex{Pattern: "^" + email + "$", Options: "i"}})
}

// FindByID fetches a device by document id.
func (r *DeviceRepository) FindByID(ctx context.Context, id string) (models.Device, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Device{}, fmt.Errorf("invalid device id %q: %w", id, err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindOwned fetches a device only when it belongs to the given dairy.
func (r *DeviceRepository) FindOwned(ctx context.Context, dairyCode, deviceID string) (models.Device, error) {
	return r.findOne(ctx, bson.M{"deviceid": deviceID, "dairyCode": dairyCode})
}

// Insert registers a new device document.
func (r *DeviceRepository) Insert(ctx context.Context, device models.Device) error {
	if _, err := r.coll.InsertOne(ctx, device); err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// Delete removes a device document.
func (r *DeviceRepository) Delete(ctx context.Context, deviceID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"deviceid": deviceID})
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDeviceIDs returns every registered device identifier.
func (r *DeviceRepository) ListDeviceIDs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "deviceid", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list device ids: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ReplaceMembers overwrites the full roster of a device.
func (r *DeviceRepository) ReplaceMembers(ctx context.Context, deviceID string, members []models.Member) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"deviceid": deviceID}, bson.M{"$set": bson.M{"members": members}})
	if err != nil {
		return fmt.Errorf("replace members: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember appends one roster entry.
func (r *DeviceRepository) AddMember(ctx context.Context, deviceID string, member models.Member) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"deviceid": deviceID}, bson.M{"$push": bson.M{"members": member}})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMember rewrites the roster entry matching the member's
// (code, milk type) identity.
func (r *DeviceRepository) UpdateMember(ctx context.Context, deviceID string, member models.Member) error {
	filter := bson.M{
		"deviceid": deviceID,
		"members":  bson.M{"$elemMatch": bson.M{"CODE": member.Code, "MILKTYPE": member.MilkType}},
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"members.$": member}})
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember deletes the roster entry matching (code, milk type).
func (r *DeviceRepository) RemoveMember(ctx context.Context, deviceID string, code int, milkType string) error {
	update := bson.M{"$pull": bson.M{"members": bson.M{"CODE": code, "MILKTYPE": milkType}}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"deviceid": deviceID}, update)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyRateTable installs a device-owned rate table. Table body, chart
// id, effective date and the override flag land in one document update
// so a device upload is atomic.
func (r *DeviceRepository) ApplyRateTable(ctx context.Context, deviceID, kind string, table interface{}, chartID int, effectiveDate string) error {
	fields, ok := tableFields[kind]
	if !ok {
		return fmt.Errorf("unknown rate table kind %q", kind)
	}

	update := bson.M{"$set": bson.M{
		kind:             table,
		fields.chartID:   chartID,
		fields.effective: effectiveDate,
		fields.flag:      true,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"deviceid": deviceID}, update)
	if err != nil {
		return fmt.Errorf("apply rate table: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyDairyTableMeta propagates a dairy-level upload to every device
// of the dairy: new chart id and effective date, override flag
// cleared so the dairy table becomes the default again.
func (r *DeviceRepository) ApplyDairyTableMeta(ctx context.Context, dairyCode, kind string, chartID int, effectiveDate string) error {
	fields, ok := tableFields[kind]
	if !ok {
		return fmt.Errorf("unknown rate table kind %q", kind)
	}

	update := bson.M{"$set": bson.M{
		fields.chartID:   chartID,
		fields.effective: effectiveDate,
		fields.flag:      false,
	}}
	if _, err := r.coll.UpdateMany(ctx, bson.M{"dairyCode": dairyCode}, update); err != nil {
		return fmt.Errorf("propagate rate table metadata: %w", err)
	}
	return nil
}
