package reports

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/skverma/milknet/internal/domain/models"
)

// milkTypeRank fixes the emitted category order: COW, BUF, then the
// synthetic TOTAL/ALL row.
func milkTypeRank(milkType string) int {
	switch milkType {
	case models.MilkTypeCow:
		return 0
	case models.MilkTypeBuf:
		return 1
	case models.MilkTypeTotal, models.MilkTypeAll:
		return 2
	}
	return 3
}

// accumulator folds records into one group. All arithmetic stays in
// full floating precision; rendering to fixed decimals happens only at
// the payload boundary.
type accumulator struct {
	qty       float64
	amount    float64
	incentive float64
	fatSum    float64
	snfSum    float64
	clrSum    float64
	rateSum   float64
	count     int
}

func (a *accumulator) add(r models.Record) {
	a.qty += r.Qty
	a.amount += r.Qty * r.Rate
	a.incentive += r.Incentive
	a.fatSum += r.Fat
	a.snfSum += r.SNF
	a.clrSum += r.CLR
	a.rateSum += r.Rate
	a.count++
}

// weightedRate is totalAmount / totalQuantity, zero for empty groups.
func (a *accumulator) weightedRate() float64 {
	if a.qty == 0 {
		return 0
	}
	return a.amount / a.qty
}

// meanRate is the unweighted mean of per-record rates. The codewise
// report uses this instead of the weighted rate; the divergence is
// deliberate and kept.
func (a *accumulator) meanRate() float64 {
	if a.count == 0 {
		return 0
	}
	return a.rateSum / float64(a.count)
}

func (a *accumulator) meanFat() float64 {
	if a.count == 0 {
		return 0
	}
	return a.fatSum / float64(a.count)
}

func (a *accumulator) meanSNF() float64 {
	if a.count == 0 {
		return 0
	}
	return a.snfSum / float64(a.count)
}

func (a *accumulator) meanCLR() float64 {
	if a.count == 0 {
		return 0
	}
	return a.clrSum / float64(a.count)
}

// fixed renders a float as a fixed-decimal string: one decimal for
// quality metrics, two for quantity and money.
func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// totalsRow renders one derived report row. weighted selects between
// the quantity-weighted and the unweighted average rate.
func totalsRow(milkType string, acc *accumulator, weighted, withCLR bool) models.MilkTypeTotals {
	rate := acc.meanRate()
	if weighted {
		rate = acc.weightedRate()
	}

	row := models.MilkTypeTotals{
		MilkType:       milkType,
		TotalQuantity:  fixed(acc.qty, 2),
		TotalAmount:    fixed(acc.amount, 2),
		TotalIncentive: fixed(acc.incentive, 2),
		AverageFat:     fixed(acc.meanFat(), 1),
		AverageSNF:     fixed(acc.meanSNF(), 1),
		AverageRate:    fixed(rate, 2),
		GrandTotal:     fixed(acc.amount+acc.incentive, 2),
		TotalRecords:   acc.count,
	}
	if withCLR {
		row.AverageCLR = fixed(acc.meanCLR(), 1)
	}
	return row
}

// enrich attaches the derived amount and grand total to a raw record.
func enrich(r models.Record) models.EnrichedRecord {
	return models.EnrichedRecord{
		Record:     r,
		Amount:     fixed(r.Amount(), 2),
		GrandTotal: fixed(r.GrandTotal(), 2),
	}
}

func enrichAll(records []models.Record) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, enrich(r))
	}
	return out
}

// parseSampleDate parses the textual SAMPLEDATE written by intake
// devices, tolerating stray whitespace.
func parseSampleDate(value string) (time.Time, error) {
	return time.Parse(models.SampleDateLayout, strings.TrimSpace(value))
}

// parseFilterDate accepts a report date filter in either the device
// form (DD/MM/YYYY) or ISO form (YYYY-MM-DD).
func parseFilterDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(models.SampleDateLayout, trimmed); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidFilter, value)
}

// filterByDateRange keeps records whose parsed SAMPLEDATE falls inside
// [from, to]. Records with an unparseable date are dropped, matching
// the store-side behavior of treating them as unmatchable.
func filterByDateRange(records []models.Record, from, to time.Time) []models.Record {
	kept := records[:0]
	for _, r := range records {
		d, err := parseSampleDate(r.SampleDate)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func sortRecordsByDate(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		di, erri := parseSampleDate(records[i].SampleDate)
		dj, errj := parseSampleDate(records[j].SampleDate)
		if erri != nil || errj != nil {
			return erri == nil
		}
		return di.Before(dj)
	})
}

// paginate computes the slice window and page count for a list of n
// grouped rows. Pagination always runs after grouping, derivation and
// category completion.
func paginate(n, page, limit int) (start, end, totalPages int) {
	totalPages = int(math.Ceil(float64(n) / float64(limit)))
	start = (page - 1) * limit
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	return start, end, totalPages
}

// normalizePage applies the page>=1 / limit>=1 defaults.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// normalizeShift maps an optional shift filter to a store match value.
// Empty or BOTH means no restriction.
func normalizeShift(shift string) string {
	upper := strings.ToUpper(strings.TrimSpace(shift))
	if upper == "" || upper == models.ShiftBoth {
		return ""
	}
	return upper
}
