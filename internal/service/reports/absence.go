package reports

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
)

// AbsenceFilter identifies the absent-members report for one device,
// date and shift.
type AbsenceFilter struct {
	DeviceID string
	Date     string
	Shift    string
	Page     int
	Limit    int
}

// AbsentMembers reports which roster members did not contribute a
// record in the (device, date, shift) window. Absence is decided
// purely by code membership: a member is absent when no record with
// its code exists, regardless of which milk type the code was present
// under.
func (s *Service) AbsentMembers(ctx context.Context, f AbsenceFilter) (models.AbsenceReport, error) {
	if f.DeviceID == "" || f.Date == "" || f.Shift == "" {
		return models.AbsenceReport{}, fmt.Errorf("%w: deviceid, date and shift are required", ErrInvalidFilter)
	}

	device, err := s.devices.FindByDeviceID(ctx, f.DeviceID)
	if err != nil {
		return models.AbsenceReport{}, err
	}
	roster := device.Members

	presentCodes, err := s.records.PresentCodes(ctx, f.DeviceID, f.Date, strings.ToUpper(f.Shift))
	if err != nil {
		return models.AbsenceReport{}, err
	}
	present := make(map[int]struct{}, len(presentCodes))
	for _, code := range presentCodes {
		present[code] = struct{}{}
	}

	// presentMembers counts roster entries, not distinct record codes:
	// a record may reference a code missing from the roster, and the
	// present and absent counts must partition the roster exactly.
	absent := make([]models.AbsentMember, 0, len(roster))
	var presentMembers, cowAbsent, bufAbsent int
	for _, member := range roster {
		if _, ok := present[member.Code]; ok {
			presentMembers++
			continue
		}
		absent = append(absent, models.AbsentMember{
			Code:       member.Code,
			MilkType:   member.MilkType,
			MemberName: member.MemberName,
		})
		switch strings.ToUpper(member.MilkType) {
		case models.MilkTypeCow, "C":
			cowAbsent++
		case models.MilkTypeBuf, "B":
			bufAbsent++
		}
	}

	page, limit := normalizePage(f.Page, f.Limit, defaultAbsenceLimit)
	start, end, totalPages := paginate(len(absent), page, limit)

	s.logger.Debug("absence computed",
		zap.String("device", f.DeviceID),
		zap.String("date", f.Date),
		zap.Int("roster", len(roster)),
		zap.Int("present", len(presentCodes)),
		zap.Int("absent", len(absent)))

	return models.AbsenceReport{
		TotalMembers:   len(roster),
		PresentCount:   presentMembers,
		AbsentCount:    len(absent),
		TotalRecords:   len(absent),
		CowAbsentCount: cowAbsent,
		BufAbsentCount: bufAbsent,
		Page:           page,
		Limit:          limit,
		TotalPages:     totalPages,
		AbsentMembers:  absent[start:end],
	}, nil
}
