package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// CumulativeFilter identifies the member ledger report over a member
// code range and date range.
type CumulativeFilter struct {
	DeviceID string
	FromCode int
	ToCode   int
	FromDate string
	ToDate   string
	Page     int
	Limit    int
}

type ledgerKey struct {
	code     int
	milkType string
}

// Cumulative builds the per-member cumulative ledger: one row per
// (code, milk type) pair, a per-milk-type summary with distinct member
// counts, and grand totals. Ledger rows are paginated after the full
// grouping and sort.
func (s *Service) Cumulative(ctx context.Context, f CumulativeFilter) (models.CumulativeReport, error) {
	if f.DeviceID == "" || f.FromCode <= 0 || f.ToCode <= 0 || f.FromDate == "" || f.ToDate == "" {
		return models.CumulativeReport{}, fmt.Errorf("%w: deviceid, fromDate, toDate, fromCode and toCode are required", ErrInvalidFilter)
	}

	from, err := parseFilterDate(f.FromDate)
	if err != nil {
		return models.CumulativeReport{}, err
	}
	to, err := parseFilterDate(f.ToDate)
	if err != nil {
		return models.CumulativeReport{}, err
	}

	fromCode, toCode := f.FromCode, f.ToCode
	records, err := s.records.Find(ctx, mongodb.RecordFilter{
		DeviceID: f.DeviceID,
		FromCode: &fromCode,
		ToCode:   &toCode,
	})
	if err != nil {
		return models.CumulativeReport{}, err
	}
	records = filterByDateRange(records, from, to)

	ledger := map[ledgerKey]*accumulator{}
	perType := map[string]*accumulator{}
	memberSets := map[string]map[int]struct{}{}
	grand := &accumulator{}

	for _, r := range records {
		key := ledgerKey{code: r.Code, milkType: r.MilkType}
		acc, ok := ledger[key]
		if !ok {
			acc = &accumulator{}
			ledger[key] = acc
		}
		acc.add(r)

		typeAcc, ok := perType[r.MilkType]
		if !ok {
			typeAcc = &accumulator{}
			perType[r.MilkType] = typeAcc
			memberSets[r.MilkType] = map[int]struct{}{}
		}
		typeAcc.add(r)
		memberSets[r.MilkType][r.Code] = struct{}{}

		grand.add(r)
	}

	keys := make([]ledgerKey, 0, len(ledger))
	for key := range ledger {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].milkType < keys[j].milkType
	})

	rows := make([]models.CumulativeRow, 0, len(keys))
	for _, key := range keys {
		acc := ledger[key]
		rows = append(rows, models.CumulativeRow{
			Code:           key.code,
			MilkType:       key.milkType,
			TotalQty:       fixed(acc.qty, 2),
			AvgRate:        fixed(acc.weightedRate(), 2),
			TotalIncentive: fixed(acc.incentive, 2),
			TotalAmount:    fixed(acc.amount, 2),
			GrandTotal:     fixed(acc.amount+acc.incentive, 2),
		})
	}

	for _, milkType := range []string{models.MilkTypeCow, models.MilkTypeBuf} {
		if _, ok := perType[milkType]; !ok {
			perType[milkType] = &accumulator{}
			memberSets[milkType] = map[int]struct{}{}
		}
	}
	milkTypes := make([]string, 0, len(perType))
	for milkType := range perType {
		milkTypes = append(milkTypes, milkType)
	}
	sort.Slice(milkTypes, func(i, j int) bool {
		ri, rj := milkTypeRank(milkTypes[i]), milkTypeRank(milkTypes[j])
		if ri != rj {
			return ri < rj
		}
		return milkTypes[i] < milkTypes[j]
	})

	summaries := make([]models.CumulativeMilkTypeSummary, 0, len(milkTypes))
	for _, milkType := range milkTypes {
		acc := perType[milkType]
		summaries = append(summaries, models.CumulativeMilkTypeSummary{
			MemberCount:    len(memberSets[milkType]),
			MilkType:       milkType,
			TotalQty:       fixed(acc.qty, 2),
			TotalAmount:    fixed(acc.amount, 2),
			TotalIncentive: fixed(acc.incentive, 2),
			GrandTotal:     fixed(acc.amount+acc.incentive, 2),
		})
	}

	page, limit := normalizePage(f.Page, f.Limit, defaultCumulativeLimit)
	start, end, totalPages := paginate(len(rows), page, limit)

	return models.CumulativeReport{
		Data:                rows[start:end],
		MilkTypeTotals:      summaries,
		TotalMembers:        len(rows),
		GrandTotalQty:       fixed(grand.qty, 2),
		GrandTotalIncentive: fixed(grand.incentive, 2),
		GrandTotalAmount:    fixed(grand.amount, 2),
		GrandTotal:          fixed(grand.amount+grand.incentive, 2),
		Page:                page,
		Limit:               limit,
		TotalRecords:        len(rows),
		TotalPages:          totalPages,
	}, nil
}
