package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skverma/milknet/internal/domain/models"
)

func record(device string, code int, milkType string, qty, rate float64) models.Record {
	return models.Record{
		DeviceID:   device,
		Code:       code,
		MilkType:   milkType,
		Qty:        qty,
		Rate:       rate,
		Fat:        4.0,
		SNF:        8.5,
		SampleDate: "15/03/2025",
		Shift:      models.ShiftMorning,
	}
}

func TestDatewiseWeightedAverages(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
		record("D1", 2, models.MilkTypeCow, 5, 32),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1", Date: "15/03/2025"})
	require.NoError(t, err)
	require.Len(t, report.Totals, 3)

	cow := report.Totals[0]
	assert.Equal(t, models.MilkTypeCow, cow.MilkType)
	assert.Equal(t, "15.00", cow.TotalQuantity)
	assert.Equal(t, "460.00", cow.TotalAmount)
	// 460 / 15, not (30+32)/2
	assert.Equal(t, "30.67", cow.AverageRate)
	assert.Equal(t, 2, cow.TotalRecords)
}

func TestDatewiseAlwaysEmitsAllCategories(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1", Date: "15/03/2025"})
	require.NoError(t, err)
	require.Len(t, report.Totals, 3)

	assert.Equal(t, models.MilkTypeCow, report.Totals[0].MilkType)
	assert.Equal(t, models.MilkTypeBuf, report.Totals[1].MilkType)
	assert.Equal(t, models.MilkTypeTotal, report.Totals[2].MilkType)

	buf := report.Totals[1]
	assert.Equal(t, "0.00", buf.TotalQuantity)
	assert.Equal(t, "0.00", buf.TotalAmount)
	assert.Equal(t, "0.00", buf.AverageRate)
	assert.Equal(t, 0, buf.TotalRecords)
}

func TestDatewiseGrandTotalIncludesIncentive(t *testing.T) {
	r := record("D1", 1, models.MilkTypeBuf, 8, 45)
	r.Incentive = 12.5
	store := &fakeRecordStore{records: []models.Record{r}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1", Date: "15/03/2025"})
	require.NoError(t, err)

	buf := report.Totals[1]
	assert.Equal(t, "360.00", buf.TotalAmount)
	assert.Equal(t, "12.50", buf.TotalIncentive)
	assert.Equal(t, "372.50", buf.GrandTotal)

	require.Len(t, report.Records, 1)
	assert.Equal(t, "360.00", report.Records[0].Amount)
	assert.Equal(t, "372.50", report.Records[0].GrandTotal)
}

func TestDatewiseShiftFilter(t *testing.T) {
	morning := record("D1", 1, models.MilkTypeCow, 10, 30)
	evening := record("D1", 1, models.MilkTypeCow, 4, 30)
	evening.Shift = models.ShiftEvening
	store := &fakeRecordStore{records: []models.Record{morning, evening}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1", Date: "15/03/2025", Shift: models.ShiftMorning})
	require.NoError(t, err)
	assert.Equal(t, "10.00", report.Totals[0].TotalQuantity)

	// BOTH covers both shifts
	report, err = svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1", Date: "15/03/2025", Shift: models.ShiftBoth})
	require.NoError(t, err)
	assert.Equal(t, "14.00", report.Totals[0].TotalQuantity)
}

func TestDatewiseRejectsMissingFilter(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, &fakeDeviceStore{}, nil)

	_, err := svc.Datewise(context.Background(), DatewiseFilter{DeviceID: "D1"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.Datewise(context.Background(), DatewiseFilter{Date: "15/03/2025"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestDatewiseMultipleCombinesDevices(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
		record("D2", 2, models.MilkTypeBuf, 5, 40),
		record("D3", 3, models.MilkTypeCow, 7, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseMultiple(context.Background(), MultiDeviceFilter{
		DeviceIDs: []string{"D1", "D2"},
		Date:      "15/03/2025",
	})
	require.NoError(t, err)
	require.Len(t, report.Totals, 3)

	assert.Equal(t, "10.00", report.Totals[0].TotalQuantity)
	assert.Equal(t, "5.00", report.Totals[1].TotalQuantity)

	total := report.Totals[2]
	assert.Equal(t, models.MilkTypeTotal, total.MilkType)
	assert.Equal(t, "15.00", total.TotalQuantity)
	assert.Equal(t, "500.00", total.TotalAmount)
	// 500 / 15
	assert.Equal(t, "33.33", total.AverageRate)
	assert.Equal(t, 2, total.TotalRecords)
}

func TestCodewiseUsesUnweightedMeanRate(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 7, models.MilkTypeCow, 10, 30),
		record("D1", 7, models.MilkTypeCow, 5, 32),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Codewise(context.Background(), CodewiseFilter{
		DeviceID: "D1",
		Code:     7,
		FromDate: "01/03/2025",
		ToDate:   "31/03/2025",
	})
	require.NoError(t, err)

	cow := report.Totals[0]
	assert.Equal(t, "15.00", cow.TotalQuantity)
	assert.Equal(t, "460.00", cow.TotalAmount)
	// (30 + 32) / 2, not 460 / 15
	assert.Equal(t, "31.00", cow.AverageRate)
	assert.Equal(t, 7, cow.MemberCode)
}

func TestCodewiseSortsRecordsByDate(t *testing.T) {
	second := record("D1", 7, models.MilkTypeCow, 5, 30)
	second.SampleDate = "20/03/2025"
	first := record("D1", 7, models.MilkTypeCow, 10, 30)
	first.SampleDate = "10/03/2025"
	store := &fakeRecordStore{records: []models.Record{second, first}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Codewise(context.Background(), CodewiseFilter{
		DeviceID: "D1",
		Code:     7,
		FromDate: "01/03/2025",
		ToDate:   "31/03/2025",
	})
	require.NoError(t, err)
	require.Len(t, report.Records, 2)
	assert.Equal(t, "10/03/2025", report.Records[0].SampleDate)
	assert.Equal(t, "20/03/2025", report.Records[1].SampleDate)
}

func TestCodewiseDateRangeExcludes(t *testing.T) {
	inside := record("D1", 7, models.MilkTypeCow, 10, 30)
	outside := record("D1", 7, models.MilkTypeCow, 99, 30)
	outside.SampleDate = "01/04/2025"
	store := &fakeRecordStore{records: []models.Record{inside, outside}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Codewise(context.Background(), CodewiseFilter{
		DeviceID: "D1",
		Code:     7,
		FromDate: "01/03/2025",
		ToDate:   "31/03/2025",
	})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "10.00", report.Totals[0].TotalQuantity)
}
