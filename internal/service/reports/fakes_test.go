package reports

import (
	"context"
	"strings"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// fakeRecordStore serves canned records through the same filter
// semantics the MongoDB store applies.
type fakeRecordStore struct {
	records []models.Record
}

func (f *fakeRecordStore) Find(_ context.Context, filter mongodb.RecordFilter) ([]models.Record, error) {
	var out []models.Record
	for _, r := range f.records {
		if filter.DeviceID != "" && r.DeviceID != filter.DeviceID {
			continue
		}
		if len(filter.DeviceIDs) > 0 && !contains(filter.DeviceIDs, r.DeviceID) {
			continue
		}
		if filter.Code != nil && r.Code != *filter.Code {
			continue
		}
		if filter.FromCode != nil && r.Code < *filter.FromCode {
			continue
		}
		if filter.ToCode != nil && r.Code > *filter.ToCode {
			continue
		}
		if filter.SampleDate != "" && r.SampleDate != filter.SampleDate {
			continue
		}
		if filter.Shift != "" {
			if filter.ShiftFold {
				if !strings.EqualFold(r.Shift, filter.Shift) {
					continue
				}
			} else if r.Shift != filter.Shift {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRecordStore) FindOne(ctx context.Context, deviceID string, code int, date, shift string) (models.Record, error) {
	for _, r := range f.records {
		if r.DeviceID == deviceID && r.Code == code && r.SampleDate == date && r.Shift == shift {
			return r, nil
		}
	}
	return models.Record{}, mongodb.ErrNotFound
}

func (f *fakeRecordStore) Insert(_ context.Context, record models.Record) (models.Record, error) {
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeRecordStore) Update(_ context.Context, _ string, record models.Record) (models.Record, error) {
	return record, nil
}

func (f *fakeRecordStore) PresentCodes(_ context.Context, deviceID, date, shift string) ([]int, error) {
	seen := map[int]struct{}{}
	var codes []int
	for _, r := range f.records {
		if r.DeviceID != deviceID || r.SampleDate != date {
			continue
		}
		if shift != "" && shift != models.ShiftBoth && r.Shift != shift {
			continue
		}
		if _, ok := seen[r.Code]; ok {
			continue
		}
		seen[r.Code] = struct{}{}
		codes = append(codes, r.Code)
	}
	return codes, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// fakeDeviceStore serves one device per id. Only the lookups the
// report paths touch are implemented.
type fakeDeviceStore struct {
	devices map[string]models.Device
}

func (f *fakeDeviceStore) FindByDeviceID(_ context.Context, deviceID string) (models.Device, error) {
	device, ok := f.devices[deviceID]
	if !ok {
		return models.Device{}, mongodb.ErrNotFound
	}
	return device, nil
}

func (f *fakeDeviceStore) FindByEmail(context.Context, string) (models.Device, error) {
	return models.Device{}, mongodb.ErrNotFound
}

func (f *fakeDeviceStore) FindByID(context.Context, string) (models.Device, error) {
	return models.Device{}, mongodb.ErrNotFound
}

func (f *fakeDeviceStore) FindOwned(context.Context, string, string) (models.Device, error) {
	return models.Device{}, mongodb.ErrNotFound
}

func (f *fakeDeviceStore) Insert(context.Context, models.Device) error { return nil }

func (f *fakeDeviceStore) Delete(context.Context, string) error { return nil }

func (f *fakeDeviceStore) ListDeviceIDs(context.Context) ([]string, error) {
	var ids []string
	for id := range f.devices {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeDeviceStore) ReplaceMembers(context.Context, string, []models.Member) error { return nil }

func (f *fakeDeviceStore) AddMember(context.Context, string, models.Member) error { return nil }

func (f *fakeDeviceStore) UpdateMember(context.Context, string, models.Member) error { return nil }

func (f *fakeDeviceStore) RemoveMember(context.Context, string, int, string) error { return nil }

func (f *fakeDeviceStore) ApplyRateTable(context.Context, string, string, interface{}, int, string) error {
	return nil
}

func (f *fakeDeviceStore) ApplyDairyTableMeta(context.Context, string, string, int, string) error {
	return nil
}
