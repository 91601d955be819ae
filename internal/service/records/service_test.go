package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

type fakeRecordStore struct {
	inserted []models.Record
}

func (f *fakeRecordStore) Find(_ context.Context, filter mongodb.RecordFilter) ([]models.Record, error) {
	var out []models.Record
	for _, r := range f.inserted {
		if filter.DeviceID != "" && r.DeviceID != filter.DeviceID {
			continue
		}
		if filter.SampleDate != "" && r.SampleDate != filter.SampleDate {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRecordStore) FindOne(context.Context, string, int, string, string) (models.Record, error) {
	return models.Record{}, mongodb.ErrNotFound
}

func (f *fakeRecordStore) Insert(_ context.Context, record models.Record) (models.Record, error) {
	f.inserted = append(f.inserted, record)
	return record, nil
}

func (f *fakeRecordStore) Update(_ context.Context, _ string, record models.Record) (models.Record, error) {
	return record, nil
}

func (f *fakeRecordStore) PresentCodes(context.Context, string, string, string) ([]int, error) {
	return nil, nil
}

func validRecord() models.Record {
	return models.Record{
		DeviceID:   "DEV1",
		Code:       7,
		MilkType:   "cow",
		Qty:        10,
		Rate:       30,
		SampleDate: "15/03/2025",
		Shift:      "morning",
	}
}

func TestAddNormalizesCase(t *testing.T) {
	store := &fakeRecordStore{}
	svc := NewService(store, nil)

	saved, err := svc.Add(context.Background(), validRecord())
	require.NoError(t, err)
	assert.Equal(t, "COW", saved.MilkType)
	assert.Equal(t, "MORNING", saved.Shift)
	require.Len(t, store.inserted, 1)
}

func TestAddValidation(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, nil)

	bad := validRecord()
	bad.DeviceID = ""
	_, err := svc.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	bad = validRecord()
	bad.Code = 0
	_, err = svc.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	bad = validRecord()
	bad.Qty = -1
	_, err = svc.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	bad = validRecord()
	bad.MilkType = "GOAT"
	_, err = svc.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	bad = validRecord()
	bad.SampleDate = "2025-03-15"
	_, err = svc.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestListByDateShiftEmptyIsNotFound(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, nil)

	_, err := svc.ListByDateShift(context.Background(), "DEV1", "15/03/2025", "MORNING")
	assert.ErrorIs(t, err, mongodb.ErrNotFound)
}

func TestEditRequiresID(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, nil)

	_, err := svc.Edit(context.Background(), "", validRecord())
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
