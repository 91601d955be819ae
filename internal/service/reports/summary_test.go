package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skverma/milknet/internal/domain/models"
)

func summaryRecord(code int, milkType, date, shift string, qty, rate, fat float64) models.Record {
	return models.Record{
		DeviceID:   "D1",
		Code:       code,
		MilkType:   milkType,
		Qty:        qty,
		Rate:       rate,
		Fat:        fat,
		SNF:        8.5,
		SampleDate: date,
		Shift:      shift,
	}
}

func summaryFilter() SummaryFilter {
	return SummaryFilter{
		DeviceID: "D1",
		FromDate: "01/03/2025",
		ToDate:   "31/03/2025",
		FromCode: 1,
		ToCode:   100,
	}
}

func TestSummaryCollapsesBothShiftsToAll(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "15/03/2025", models.ShiftMorning, 10, 30, 4.0),
		summaryRecord(2, models.MilkTypeCow, "15/03/2025", models.ShiftEvening, 5, 30, 4.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseSummary(context.Background(), summaryFilter())
	require.NoError(t, err)
	require.Len(t, report.Data, 1)

	group := report.Data[0]
	assert.Equal(t, "15/03/2025", group.Date)
	assert.Equal(t, models.MilkTypeAll, group.Shift)
	assert.Empty(t, group.Records)

	// COW folds both shifts together
	require.Len(t, group.Stats, 3)
	assert.Equal(t, models.MilkTypeCow, group.Stats[0].MilkType)
	assert.Equal(t, "15.00", group.Stats[0].TotalQty)
}

func TestDetailedKeepsShiftsSeparate(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "15/03/2025", models.ShiftMorning, 10, 30, 4.0),
		summaryRecord(2, models.MilkTypeCow, "15/03/2025", models.ShiftEvening, 5, 30, 4.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseDetailed(context.Background(), summaryFilter())
	require.NoError(t, err)
	require.Len(t, report.Data, 2)

	assert.Equal(t, models.ShiftMorning, report.Data[0].Shift)
	assert.Equal(t, models.ShiftEvening, report.Data[1].Shift)
	require.Len(t, report.Data[0].Records, 1)
	assert.Equal(t, "300.00", report.Data[0].Records[0].Amount)
}

func TestSummaryAllRowIsAverageOfAverages(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "15/03/2025", models.ShiftMorning, 10, 30, 4.0),
		summaryRecord(2, models.MilkTypeBuf, "15/03/2025", models.ShiftMorning, 5, 50, 7.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseSummary(context.Background(), summaryFilter())
	require.NoError(t, err)
	require.Len(t, report.Data, 1)

	stats := report.Data[0].Stats
	require.Len(t, stats, 3)
	all := stats[2]
	assert.Equal(t, models.MilkTypeAll, all.MilkType)
	// mean of the per-type means: (4.0 + 7.0) / 2 and (30 + 50) / 2
	assert.Equal(t, "5.5", all.AvgFat)
	assert.Equal(t, "40.00", all.AvgRate)
	// quantity and money stay true sums
	assert.Equal(t, "15.00", all.TotalQty)
	assert.Equal(t, "550.00", all.TotalAmount)
	assert.Equal(t, 2, all.TotalSamples)
}

func TestSummaryAllIgnoresCompletedZeroCategories(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "15/03/2025", models.ShiftMorning, 10, 30, 4.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseSummary(context.Background(), summaryFilter())
	require.NoError(t, err)

	stats := report.Data[0].Stats
	require.Len(t, stats, 3)
	assert.Equal(t, models.MilkTypeCow, stats[0].MilkType)
	assert.Equal(t, models.MilkTypeBuf, stats[1].MilkType)
	assert.Equal(t, models.MilkTypeAll, stats[2].MilkType)

	// the zero-completed BUF row must not drag the ALL averages down
	assert.Equal(t, "4.0", stats[2].AvgFat)
	assert.Equal(t, "30.00", stats[2].AvgRate)
	assert.Equal(t, "0.00", stats[1].TotalQty)
}

func TestSummaryGroupsSortedByDateThenShift(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "20/03/2025", models.ShiftMorning, 1, 30, 4.0),
		summaryRecord(1, models.MilkTypeCow, "05/03/2025", models.ShiftEvening, 1, 30, 4.0),
		summaryRecord(1, models.MilkTypeCow, "05/03/2025", models.ShiftMorning, 1, 30, 4.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.DatewiseDetailed(context.Background(), summaryFilter())
	require.NoError(t, err)
	require.Len(t, report.Data, 3)

	assert.Equal(t, "05/03/2025", report.Data[0].Date)
	assert.Equal(t, models.ShiftMorning, report.Data[0].Shift)
	assert.Equal(t, "05/03/2025", report.Data[1].Date)
	assert.Equal(t, models.ShiftEvening, report.Data[1].Shift)
	assert.Equal(t, "20/03/2025", report.Data[2].Date)
}

func TestSummaryPaginatesGroups(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		summaryRecord(1, models.MilkTypeCow, "01/03/2025", models.ShiftMorning, 1, 30, 4.0),
		summaryRecord(1, models.MilkTypeCow, "02/03/2025", models.ShiftMorning, 1, 30, 4.0),
		summaryRecord(1, models.MilkTypeCow, "03/03/2025", models.ShiftMorning, 1, 30, 4.0),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	f := summaryFilter()
	f.Page = 2
	f.Limit = 2
	report, err := svc.DatewiseSummary(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 2, report.TotalPages)
	require.Len(t, report.Data, 1)
	assert.Equal(t, "03/03/2025", report.Data[0].Date)
}

func TestSummaryRejectsMissingCodeRange(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, &fakeDeviceStore{}, nil)

	f := summaryFilter()
	f.FromCode = 0
	_, err := svc.DatewiseSummary(context.Background(), f)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
