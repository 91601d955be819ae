package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skverma/milknet/internal/domain/models"
)

func rosterDevice(members ...models.Member) *fakeDeviceStore {
	return &fakeDeviceStore{devices: map[string]models.Device{
		"D1": {DeviceID: "D1", Members: members},
	}}
}

func member(code int, milkType, name string) models.Member {
	return models.Member{Code: code, MilkType: milkType, MemberName: name, Status: models.MemberActive}
}

func TestAbsentMembersComplement(t *testing.T) {
	devices := rosterDevice(
		member(1, models.MilkTypeCow, "Asha"),
		member(2, models.MilkTypeCow, "Binu"),
		member(3, models.MilkTypeBuf, "Chand"),
	)
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
		record("D1", 3, models.MilkTypeBuf, 5, 50),
	}}
	svc := NewService(store, devices, nil)

	report, err := svc.AbsentMembers(context.Background(), AbsenceFilter{
		DeviceID: "D1",
		Date:     "15/03/2025",
		Shift:    models.ShiftMorning,
	})
	require.NoError(t, err)

	require.Len(t, report.AbsentMembers, 1)
	assert.Equal(t, 2, report.AbsentMembers[0].Code)
	assert.Equal(t, "Binu", report.AbsentMembers[0].MemberName)

	assert.Equal(t, 3, report.TotalMembers)
	assert.Equal(t, 2, report.PresentCount)
	assert.Equal(t, 1, report.AbsentCount)
	assert.Equal(t, report.TotalMembers, report.PresentCount+report.AbsentCount)
	assert.Equal(t, 1, report.CowAbsentCount)
	assert.Equal(t, 0, report.BufAbsentCount)
}

func TestAbsenceByCodeMembershipNotMilkType(t *testing.T) {
	// code 1 appears twice on the roster under different milk types; a
	// single COW record marks both entries present
	devices := rosterDevice(
		member(1, models.MilkTypeCow, "Asha"),
		member(1, models.MilkTypeBuf, "Asha"),
	)
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
	}}
	svc := NewService(store, devices, nil)

	report, err := svc.AbsentMembers(context.Background(), AbsenceFilter{
		DeviceID: "D1",
		Date:     "15/03/2025",
		Shift:    models.ShiftMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.AbsentCount)
	assert.Equal(t, 2, report.PresentCount)
	assert.Equal(t, report.TotalMembers, report.PresentCount+report.AbsentCount)
}

func TestAbsencePartitionWithOffRosterRecords(t *testing.T) {
	devices := rosterDevice(
		member(1, models.MilkTypeCow, "Asha"),
		member(2, models.MilkTypeCow, "Binu"),
	)
	// code 99 has a record but is not on the roster; it must not
	// inflate the present count
	store := &fakeRecordStore{records: []models.Record{
		record("D1", 1, models.MilkTypeCow, 10, 30),
		record("D1", 99, models.MilkTypeCow, 10, 30),
	}}
	svc := NewService(store, devices, nil)

	report, err := svc.AbsentMembers(context.Background(), AbsenceFilter{
		DeviceID: "D1",
		Date:     "15/03/2025",
		Shift:    models.ShiftMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalMembers)
	assert.Equal(t, 1, report.PresentCount)
	assert.Equal(t, 1, report.AbsentCount)
}

func TestAbsencePagination(t *testing.T) {
	members := []models.Member{}
	for code := 1; code <= 15; code++ {
		members = append(members, member(code, models.MilkTypeCow, "M"))
	}
	devices := rosterDevice(members...)
	svc := NewService(&fakeRecordStore{}, devices, nil)

	report, err := svc.AbsentMembers(context.Background(), AbsenceFilter{
		DeviceID: "D1",
		Date:     "15/03/2025",
		Shift:    models.ShiftMorning,
	})
	require.NoError(t, err)

	// default limit is 10
	assert.Equal(t, 10, report.Limit)
	assert.Len(t, report.AbsentMembers, 10)
	assert.Equal(t, 2, report.TotalPages)
	assert.Equal(t, 15, report.AbsentCount)
}

func TestAbsenceRequiresShift(t *testing.T) {
	svc := NewService(&fakeRecordStore{}, rosterDevice(), nil)

	_, err := svc.AbsentMembers(context.Background(), AbsenceFilter{
		DeviceID: "D1",
		Date:     "15/03/2025",
	})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
