package ratetable

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/skverma/milknet/internal/domain/models"
)

// ErrBadInput indicates tabular input whose shape cannot yield a
// table at all. Individual malformed rows and cells are dropped, not
// rejected.
var ErrBadInput = errors.New("malformed rate table input")

// NormalizeKey renders a breakpoint value in the canonical one-decimal
// string form used as the join key at lookup time: "5" becomes "5.0",
// values already carrying a decimal point are kept verbatim. The same
// normalization must run on the query side.
func NormalizeKey(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty breakpoint key")
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return "", fmt.Errorf("non-numeric breakpoint key %q", raw)
	}
	if strings.Contains(trimmed, ".") {
		return trimmed, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("non-integer breakpoint key %q", raw)
	}
	return strconv.Itoa(n) + ".0", nil
}

// BuildTwoAxis converts tabular breakpoint input into the sorted
// two-level lookup table. The first header names the primary axis
// column; the remaining headers encode secondary-axis values behind
// the given prefix token (e.g. "SNF 8.5"). Rows with a non-numeric
// primary value and cells with a non-numeric rate or key are dropped.
// Both levels come out ascending by numeric interpretation, so the
// same logical breakpoints produce an identical table no matter how
// the input rows and columns were ordered.
func BuildTwoAxis(headers []string, rows [][]string, prefix string) (models.RateTable, error) {
	if len(headers) < 2 {
		return nil, fmt.Errorf("%w: needs a primary column and at least one rate column", ErrBadInput)
	}

	byPrimary := map[string][]models.RateCell{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		primary, err := NormalizeKey(row[0])
		if err != nil {
			continue
		}

		cells := make([]models.RateCell, 0, len(headers)-1)
		for i, header := range headers[1:] {
			if i+1 >= len(row) {
				break
			}
			rate, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				continue
			}
			key, err := NormalizeKey(strings.Replace(header, prefix, "", 1))
			if err != nil {
				continue
			}
			cells = append(cells, models.RateCell{Key: key, Rate: rate})
		}

		sort.Slice(cells, func(i, j int) bool {
			return numeric(cells[i].Key) < numeric(cells[j].Key)
		})
		// Last row wins on duplicate primary keys, full-replace
		// semantics within a single upload too.
		byPrimary[primary] = cells
	}

	primaries := make([]string, 0, len(byPrimary))
	for key := range byPrimary {
		primaries = append(primaries, key)
	}
	sort.Slice(primaries, func(i, j int) bool {
		return numeric(primaries[i]) < numeric(primaries[j])
	})

	table := make(models.RateTable, 0, len(primaries))
	for _, key := range primaries {
		table = append(table, models.RateRow{Key: key, Cells: byPrimary[key]})
	}
	return table, nil
}

// BuildSingleAxis parses the single-axis fat tables, whose input names
// its columns FAT and RATE. Non-numeric rows are dropped.
func BuildSingleAxis(headers []string, rows [][]string) ([]models.FatRateEntry, error) {
	fatIdx, rateIdx := -1, -1
	for i, header := range headers {
		switch strings.ToUpper(strings.TrimSpace(header)) {
		case "FAT":
			fatIdx = i
		case "RATE":
			rateIdx = i
		}
	}
	if fatIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("%w: needs FAT and RATE columns", ErrBadInput)
	}

	entries := make([]models.FatRateEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) <= fatIdx || len(row) <= rateIdx {
			continue
		}
		fat, err := strconv.ParseFloat(strings.TrimSpace(row[fatIdx]), 64)
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[rateIdx]), 64)
		if err != nil {
			continue
		}
		entries = append(entries, models.FatRateEntry{Fat: fat, Rate: rate})
	}
	return entries, nil
}

func numeric(key string) float64 {
	v, _ := strconv.ParseFloat(key, 64)
	return v
}
