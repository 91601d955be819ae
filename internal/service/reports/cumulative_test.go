package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skverma/milknet/internal/domain/models"
)

func cumulativeFilter() CumulativeFilter {
	return CumulativeFilter{
		DeviceID: "D1",
		FromCode: 1,
		ToCode:   100,
		FromDate: "01/03/2025",
		ToDate:   "31/03/2025",
	}
}

func TestCumulativeLedgerRowsPerCodeAndMilkType(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 2, models.MilkTypeCow, 10, 30),
		record("D1", 2, models.MilkTypeBuf, 5, 50),
		record("D1", 1, models.MilkTypeCow, 4, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Cumulative(context.Background(), cumulativeFilter())
	require.NoError(t, err)
	require.Len(t, report.Data, 3)

	// code ascending, milk type lexicographic within a code
	assert.Equal(t, 1, report.Data[0].Code)
	assert.Equal(t, 2, report.Data[1].Code)
	assert.Equal(t, models.MilkTypeBuf, report.Data[1].MilkType)
	assert.Equal(t, 2, report.Data[2].Code)
	assert.Equal(t, models.MilkTypeCow, report.Data[2].MilkType)

	assert.Equal(t, "5.00", report.Data[1].TotalQty)
	assert.Equal(t, "250.00", report.Data[1].TotalAmount)
	assert.Equal(t, "50.00", report.Data[1].AvgRate)
}

func TestCumulativeMilkTypeSummariesCountDistinctMembers(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
		record("D1", 1, models.MilkTypeCow, 8, 30),
		record("D1", 2, models.MilkTypeCow, 5, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Cumulative(context.Background(), cumulativeFilter())
	require.NoError(t, err)

	// COW, BUF completed even without BUF records
	require.Len(t, report.MilkTypeTotals, 2)
	cow := report.MilkTypeTotals[0]
	assert.Equal(t, models.MilkTypeCow, cow.MilkType)
	assert.Equal(t, 2, cow.MemberCount)
	assert.Equal(t, "23.00", cow.TotalQty)

	buf := report.MilkTypeTotals[1]
	assert.Equal(t, models.MilkTypeBuf, buf.MilkType)
	assert.Equal(t, 0, buf.MemberCount)
	assert.Equal(t, "0.00", buf.TotalQty)
}

func TestCumulativeGrandTotals(t *testing.T) {
	r1 := record("D1", 1, models.MilkTypeCow, 10, 30)
	r1.Incentive = 5
	r2 := record("D1", 2, models.MilkTypeBuf, 5, 50)
	store := &fakeRecordStore{records: []models.Record{r1, r2}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	report, err := svc.Cumulative(context.Background(), cumulativeFilter())
	require.NoError(t, err)

	assert.Equal(t, "15.00", report.GrandTotalQty)
	assert.Equal(t, "550.00", report.GrandTotalAmount)
	assert.Equal(t, "5.00", report.GrandTotalIncentive)
	assert.Equal(t, "555.00", report.GrandTotal)
	assert.Equal(t, 2, report.TotalMembers)
}

func TestCumulativePaginatesAfterGrouping(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 1, 30),
		record("D1", 2, models.MilkTypeCow, 1, 30),
		record("D1", 3, models.MilkTypeCow, 1, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	f := cumulativeFilter()
	f.Page = 2
	f.Limit = 2
	report, err := svc.Cumulative(context.Background(), f)
	require.NoError(t, err)

	require.Len(t, report.Data, 1)
	assert.Equal(t, 3, report.Data[0].Code)
	assert.Equal(t, 2, report.TotalPages)
	assert.Equal(t, 3, report.TotalRecords)
	// grand totals cover the whole range, not just the page
	assert.Equal(t, "3.00", report.GrandTotalQty)
}

func TestCumulativeRespectsCodeRange(t *testing.T) {
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 1, 30),
		record("D1", 50, models.MilkTypeCow, 1, 30),
		record("D1", 99, models.MilkTypeCow, 1, 30),
	}}
	svc := NewService(store, &fakeDeviceStore{}, nil)

	f := cumulativeFilter()
	f.FromCode = 2
	f.ToCode = 98
	report, err := svc.Cumulative(context.Background(), f)
	require.NoError(t, err)

	require.Len(t, report.Data, 1)
	assert.Equal(t, 50, report.Data[0].Code)
}
