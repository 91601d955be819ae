package reports

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// DatewiseFilter identifies a single-device, single-date report.
// Shift is optional; empty or BOTH covers both shifts.
type DatewiseFilter struct {
	DeviceID string
	Date     string
	Shift    string
}

// Datewise produces per-milk-type totals for one device and date,
// always emitting COW, BUF and TOTAL rows, plus the contributing raw
// records enriched with their derived amounts.
func (s *Service) Datewise(ctx context.Context, f DatewiseFilter) (models.DatewiseReport, error) {
	if f.DeviceID == "" || f.Date == "" {
		return models.DatewiseReport{}, fmt.Errorf("%w: device code and date are required", ErrInvalidFilter)
	}

	records, err := s.records.Find(ctx, mongodb.RecordFilter{
		DeviceID:   f.DeviceID,
		SampleDate: f.Date,
		Shift:      normalizeShift(f.Shift),
	})
	if err != nil {
		return models.DatewiseReport{}, err
	}
	if len(records) == 0 {
		return models.DatewiseReport{}, ErrNoRecords
	}

	groups := map[string]*accumulator{}
	total := &accumulator{}
	for _, r := range records {
		acc, ok := groups[r.MilkType]
		if !ok {
			acc = &accumulator{}
			groups[r.MilkType] = acc
		}
		acc.add(r)
		total.add(r)
	}

	totals := make([]models.MilkTypeTotals, 0, 3)
	for _, milkType := range []string{models.MilkTypeCow, models.MilkTypeBuf} {
		acc, ok := groups[milkType]
		if !ok {
			acc = &accumulator{}
		}
		totals = append(totals, s.datewiseRow(f.DeviceID, f.Date, milkType, acc))
	}
	totals = append(totals, s.datewiseRow(f.DeviceID, f.Date, models.MilkTypeTotal, total))

	s.logger.Debug("datewise report computed",
		zap.String("device", f.DeviceID),
		zap.String("date", f.Date),
		zap.Int("records", len(records)))

	return models.DatewiseReport{Totals: totals, Records: enrichAll(records)}, nil
}

func (s *Service) datewiseRow(deviceID, date, milkType string, acc *accumulator) models.MilkTypeTotals {
	row := totalsRow(milkType, acc, true, false)
	row.Device = deviceID
	row.Date = date
	return row
}

// MultiDeviceFilter identifies the fleet-wide single-date report.
type MultiDeviceFilter struct {
	DeviceIDs []string
	Date      string
	Shift     string
}

// DatewiseMultiple aggregates one date across several devices. The
// TOTAL row is re-derived from the per-milk-type rows: its quality
// averages are quantity-weighted combinations of the COW and BUF
// means, matching the fleet report's documented behavior.
func (s *Service) DatewiseMultiple(ctx context.Context, f MultiDeviceFilter) (models.DatewiseReport, error) {
	if len(f.DeviceIDs) == 0 || f.Date == "" {
		return models.DatewiseReport{}, fmt.Errorf("%w: device codes and date are required", ErrInvalidFilter)
	}

	records, err := s.records.Find(ctx, mongodb.RecordFilter{
		DeviceIDs:  f.DeviceIDs,
		SampleDate: f.Date,
		Shift:      normalizeShift(f.Shift),
	})
	if err != nil {
		return models.DatewiseReport{}, err
	}
	if len(records) == 0 {
		return models.DatewiseReport{}, ErrNoRecords
	}

	groups := map[string]*accumulator{}
	for _, r := range records {
		acc, ok := groups[r.MilkType]
		if !ok {
			acc = &accumulator{}
			groups[r.MilkType] = acc
		}
		acc.add(r)
	}
	for _, milkType := range []string{models.MilkTypeCow, models.MilkTypeBuf} {
		if _, ok := groups[milkType]; !ok {
			groups[milkType] = &accumulator{}
		}
	}

	milkTypes := make([]string, 0, len(groups))
	for milkType := range groups {
		milkTypes = append(milkTypes, milkType)
	}
	sort.Slice(milkTypes, func(i, j int) bool {
		ri, rj := milkTypeRank(milkTypes[i]), milkTypeRank(milkTypes[j])
		if ri != rj {
			return ri < rj
		}
		return milkTypes[i] < milkTypes[j]
	})

	totals := make([]models.MilkTypeTotals, 0, len(milkTypes)+1)
	var qty, amount, incentive, fatW, snfW, clrW float64
	var count int
	for _, milkType := range milkTypes {
		acc := groups[milkType]
		totals = append(totals, totalsRow(milkType, acc, true, true))

		qty += acc.qty
		amount += acc.amount
		incentive += acc.incentive
		fatW += acc.meanFat() * acc.qty
		snfW += acc.meanSNF() * acc.qty
		clrW += acc.meanCLR() * acc.qty
		count += acc.count
	}

	qtyDiv := qty
	if qtyDiv == 0 {
		qtyDiv = 1
	}
	avgRate := 0.0
	if qty > 0 {
		avgRate = amount / qty
	}
	totals = append(totals, models.MilkTypeTotals{
		MilkType:       models.MilkTypeTotal,
		TotalQuantity:  fixed(qty, 2),
		TotalAmount:    fixed(amount, 2),
		TotalIncentive: fixed(incentive, 2),
		AverageFat:     fixed(fatW/qtyDiv, 1),
		AverageSNF:     fixed(snfW/qtyDiv, 1),
		AverageCLR:     fixed(clrW/qtyDiv, 1),
		AverageRate:    fixed(avgRate, 2),
		GrandTotal:     fixed(amount+incentive, 2),
		TotalRecords:   count,
	})

	return models.DatewiseReport{Totals: totals, Records: enrichAll(records)}, nil
}

// CodewiseFilter identifies the per-member date-range report.
type CodewiseFilter struct {
	DeviceID string
	Code     int
	FromDate string
	ToDate   string
}

// Codewise produces a member's per-milk-type totals over a date range
// plus the raw records sorted by sample date. This variant keeps the
// unweighted mean of per-record rates as its averageRate; the
// divergence from the weighted rate is deliberate.
func (s *Service) Codewise(ctx context.Context, f CodewiseFilter) (models.CodewiseReport, error) {
	if f.DeviceID == "" || f.Code <= 0 || f.FromDate == "" || f.ToDate == "" {
		return models.CodewiseReport{}, fmt.Errorf("%w: device code, member code, fromDate and toDate are required", ErrInvalidFilter)
	}

	from, err := parseFilterDate(f.FromDate)
	if err != nil {
		return models.CodewiseReport{}, err
	}
	to, err := parseFilterDate(f.ToDate)
	if err != nil {
		return models.CodewiseReport{}, err
	}

	code := f.Code
	records, err := s.records.Find(ctx, mongodb.RecordFilter{DeviceID: f.DeviceID, Code: &code})
	if err != nil {
		return models.CodewiseReport{}, err
	}
	records = filterByDateRange(records, from, to)
	if len(records) == 0 {
		return models.CodewiseReport{}, ErrNoRecords
	}
	sortRecordsByDate(records)

	groups := map[string]*accumulator{}
	total := &accumulator{}
	for _, r := range records {
		acc, ok := groups[r.MilkType]
		if !ok {
			acc = &accumulator{}
			groups[r.MilkType] = acc
		}
		acc.add(r)
		total.add(r)
	}

	totals := make([]models.MilkTypeTotals, 0, 3)
	for _, milkType := range []string{models.MilkTypeCow, models.MilkTypeBuf} {
		acc, ok := groups[milkType]
		if !ok {
			acc = &accumulator{}
		}
		totals = append(totals, s.codewiseRow(f, milkType, acc))
	}
	totals = append(totals, s.codewiseRow(f, models.MilkTypeTotal, total))

	return models.CodewiseReport{Totals: totals, Records: enrichAll(records)}, nil
}

func (s *Service) codewiseRow(f CodewiseFilter, milkType string, acc *accumulator) models.MilkTypeTotals {
	row := totalsRow(milkType, acc, false, false)
	row.Device = f.DeviceID
	row.MemberCode = f.Code
	return row
}
