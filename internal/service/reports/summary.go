package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// SummaryFilter identifies the hierarchical (date, shift, milk type)
// summary reports. Shift empty or BOTH covers both shifts; Page and
// Limit paginate the grouped (date, shift) rows, never raw records.
type SummaryFilter struct {
	DeviceID string
	FromDate string
	ToDate   string
	FromCode int
	ToCode   int
	Shift    string
	Page     int
	Limit    int
}

type summaryKey struct {
	date  string
	shift string
}

type summaryGroup struct {
	key     summaryKey
	parsed  time.Time
	groups  map[string]*accumulator
	records []models.Record
}

// DatewiseSummary produces the paginated two-level summary. When the
// shift filter covers both shifts the groups collapse into a single
// ALL shift per date.
func (s *Service) DatewiseSummary(ctx context.Context, f SummaryFilter) (models.SummaryReport, error) {
	return s.summarize(ctx, f, false)
}

// DatewiseDetailed is the summary plus the contributing raw records of
// each (date, shift) group. Unlike the summary variant, both shifts
// stay separate when the filter covers both.
func (s *Service) DatewiseDetailed(ctx context.Context, f SummaryFilter) (models.SummaryReport, error) {
	return s.summarize(ctx, f, true)
}

func (s *Service) summarize(ctx context.Context, f SummaryFilter, detailed bool) (models.SummaryReport, error) {
	if f.DeviceID == "" || f.FromDate == "" || f.ToDate == "" || f.FromCode <= 0 || f.ToCode <= 0 {
		return models.SummaryReport{}, fmt.Errorf("%w: missing required query parameters", ErrInvalidFilter)
	}

	from, err := parseFilterDate(f.FromDate)
	if err != nil {
		return models.SummaryReport{}, err
	}
	to, err := parseFilterDate(f.ToDate)
	if err != nil {
		return models.SummaryReport{}, err
	}

	shift := normalizeShift(f.Shift)
	isBoth := shift == ""

	fromCode, toCode := f.FromCode, f.ToCode
	records, err := s.records.Find(ctx, mongodb.RecordFilter{
		DeviceID: f.DeviceID,
		FromCode: &fromCode,
		ToCode:   &toCode,
		Shift:    shift,
	})
	if err != nil {
		return models.SummaryReport{}, err
	}
	records = filterByDateRange(records, from, to)

	byKey := map[summaryKey]*summaryGroup{}
	for _, r := range records {
		key := summaryKey{date: r.SampleDate, shift: shift}
		if isBoth {
			if detailed {
				key.shift = r.Shift
			} else {
				key.shift = models.MilkTypeAll
			}
		}

		group, ok := byKey[key]
		if !ok {
			parsed, err := parseSampleDate(r.SampleDate)
			if err != nil {
				continue
			}
			group = &summaryGroup{key: key, parsed: parsed, groups: map[string]*accumulator{}}
			byKey[key] = group
		}

		acc, ok := group.groups[r.MilkType]
		if !ok {
			acc = &accumulator{}
			group.groups[r.MilkType] = acc
		}
		acc.add(r)
		if detailed {
			group.records = append(group.records, r)
		}
	}

	groups := make([]*summaryGroup, 0, len(byKey))
	for _, group := range byKey {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].parsed.Equal(groups[j].parsed) {
			return groups[i].parsed.Before(groups[j].parsed)
		}
		return shiftRank(groups[i].key.shift) < shiftRank(groups[j].key.shift)
	})

	page, limit := normalizePage(f.Page, f.Limit, defaultSummaryLimit)
	start, end, totalPages := paginate(len(groups), page, limit)

	data := make([]models.ShiftSummary, 0, end-start)
	for _, group := range groups[start:end] {
		summary := models.ShiftSummary{
			Date:  group.key.date,
			Shift: group.key.shift,
			Stats: buildShiftStats(group.groups),
		}
		if detailed {
			summary.Records = enrichAll(group.records)
		}
		data = append(data, summary)
	}

	return models.SummaryReport{
		Page:       page,
		Limit:      limit,
		TotalCount: len(groups),
		TotalPages: totalPages,
		Data:       data,
	}, nil
}

// buildShiftStats renders the per-milk-type entries of one
// (date, shift) group plus the synthetic ALL entry. The ALL quality
// metrics are simple means of the already-averaged per-milk-type
// values, not re-derived from raw records; quantity and money fields
// are true sums. Missing COW or BUF groups are completed with zero
// rows after the ALL metrics are computed, so empty categories never
// skew the averages.
func buildShiftStats(groups map[string]*accumulator) []models.ShiftMilkStats {
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

	stats := make([]models.ShiftMilkStats, 0, len(milkTypes)+1)
	var fatSum, snfSum, rateSum float64
	var qty, amount, incentive float64
	var samples int
	for _, milkType := range milkTypes {
		acc := groups[milkType]
		stats = append(stats, shiftStat(milkType, acc))

		fatSum += acc.meanFat()
		snfSum += acc.meanSNF()
		rateSum += acc.meanRate()
		qty += acc.qty
		amount += acc.amount
		incentive += acc.incentive
		samples += acc.count
	}

	div := float64(len(milkTypes))
	if div == 0 {
		div = 1
	}
	all := models.ShiftMilkStats{
		MilkType:       models.MilkTypeAll,
		TotalSamples:   samples,
		AvgFat:         fixed(fatSum/div, 1),
		AvgSNF:         fixed(snfSum/div, 1),
		AvgRate:        fixed(rateSum/div, 2),
		TotalQty:       fixed(qty, 2),
		TotalAmount:    fixed(amount, 2),
		TotalIncentive: fixed(incentive, 2),
		GrandTotal:     fixed(amount+incentive, 2),
	}

	for _, milkType := range []string{models.MilkTypeCow, models.MilkTypeBuf} {
		if _, ok := groups[milkType]; !ok {
			stats = append(stats, shiftStat(milkType, &accumulator{}))
		}
	}
	stats = append(stats, all)
	sort.SliceStable(stats, func(i, j int) bool {
		return milkTypeRank(stats[i].MilkType) < milkTypeRank(stats[j].MilkType)
	})

	return stats
}

func shiftStat(milkType string, acc *accumulator) models.ShiftMilkStats {
	return models.ShiftMilkStats{
		MilkType:       milkType,
		TotalSamples:   acc.count,
		AvgFat:         fixed(acc.meanFat(), 1),
		AvgSNF:         fixed(acc.meanSNF(), 1),
		AvgRate:        fixed(acc.meanRate(), 2),
		TotalQty:       fixed(acc.qty, 2),
		TotalAmount:    fixed(acc.amount, 2),
		TotalIncentive: fixed(acc.incentive, 2),
		GrandTotal:     fixed(acc.amount+acc.incentive, 2),
	}
}

// shiftRank orders shifts chronologically within a date, with the
// collapsed ALL label last.
func shiftRank(shift string) int {
	switch shift {
	case models.ShiftMorning:
		return 0
	case models.ShiftEvening:
		return 1
	}
	return 2
}
