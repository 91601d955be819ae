package models

import "time"

// MilkTypeTotals is one derived row of a grouped report. Floating
// metrics are fixed-decimal strings rendered at the boundary; sums and
// counts keep full precision until then.
type MilkTypeTotals struct {
	Device         string `json:"device,omitempty"`
	Date           string `json:"date,omitempty"`
	MemberCode     int    `json:"memberCode,omitempty"`
	MilkType       string `json:"milkType"`
	TotalQuantity  string `json:"totalQuantity"`
	TotalAmount    string `json:"totalAmount"`
	TotalIncentive string `json:"totalIncentive"`
	AverageFat     string `json:"averageFat"`
	AverageSNF     string `json:"averageSNF"`
	AverageCLR     string `json:"averageCLR,omitempty"`
	AverageRate    string `json:"averageRate"`
	GrandTotal     string `json:"grandTotal"`
	TotalRecords   int    `json:"totalRecords"`
}

// EnrichedRecord is a raw record extended with its derived amount and
// grand total for report payloads.
type EnrichedRecord struct {
	Record
	Amount     string `json:"AMOUNT"`
	GrandTotal string `json:"TOTAL"`
}

// DatewiseReport is the single-device, single-date report: completed
// per-milk-type totals plus the contributing raw records.
type DatewiseReport struct {
	Totals  []MilkTypeTotals `json:"totals"`
	Records []EnrichedRecord `json:"records"`
}

// CodewiseReport is the per-member date-range report.
type CodewiseReport struct {
	Totals  []MilkTypeTotals `json:"totals"`
	Records []EnrichedRecord `json:"records"`
}

// CumulativeRow is one member ledger line of the cumulative report.
type CumulativeRow struct {
	Code           int    `json:"CODE"`
	MilkType       string `json:"MILKTYPE"`
	TotalQty       string `json:"totalQty"`
	AvgRate        string `json:"avgRate"`
	TotalIncentive string `json:"totalIncentive"`
	TotalAmount    string `json:"totalAmount"`
	GrandTotal     string `json:"grandTotal"`
}

// CumulativeMilkTypeSummary aggregates the cumulative report per milk
// type, with the count of distinct contributing members.
type CumulativeMilkTypeSummary struct {
	MemberCount    int    `json:"memberCount"`
	MilkType       string `json:"MILKTYPE"`
	TotalQty       string `json:"totalQty"`
	TotalAmount    string `json:"totalAmount"`
	TotalIncentive string `json:"totalIncentive"`
	GrandTotal     string `json:"grandTotal"`
}

// CumulativeReport is the per-member cumulative ledger over a code and
// date range, paginated over the ledger rows.
type CumulativeReport struct {
	Data                []CumulativeRow             `json:"data"`
	MilkTypeTotals      []CumulativeMilkTypeSummary `json:"milkTypeTotals"`
	TotalMembers        int                         `json:"totalMembers"`
	GrandTotalQty       string                      `json:"grandTotalQty"`
	GrandTotalIncentive string                      `json:"grandTotalIncentive"`
	GrandTotalAmount    string                      `json:"grandTotalAmount"`
	GrandTotal          string                      `json:"grandTotal"`
	Page                int                         `json:"page"`
	Limit               int                         `json:"limit"`
	TotalRecords        int                         `json:"totalRecords"`
	TotalPages          int                         `json:"totalPages"`
}

// ShiftMilkStats is one milk-type entry inside a (date, shift) summary
// group. The ALL entry carries average-of-averages for the quality
// metrics and true sums for quantity and money.
type ShiftMilkStats struct {
	MilkType       string `json:"milktype"`
	TotalSamples   int    `json:"totalSamples"`
	AvgFat         string `json:"avgFat"`
	AvgSNF         string `json:"avgSnf"`
	AvgRate        string `json:"avgRate"`
	TotalQty       string `json:"totalQty"`
	TotalAmount    string `json:"totalAmount"`
	TotalIncentive string `json:"totalIncentive"`
	GrandTotal     string `json:"grandTotal"`
}

// ShiftSummary is one (date, shift) group of the hierarchical summary
// reports. Records is populated only by the detailed variant.
type ShiftSummary struct {
	Date    string           `json:"date"`
	Shift   string           `json:"shift"`
	Stats   []ShiftMilkStats `json:"milktypeStats"`
	Records []EnrichedRecord `json:"records,omitempty"`
}

// SummaryReport is the paginated payload shared by the datewise
// summary and detailed reports.
type SummaryReport struct {
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	Data       []ShiftSummary `json:"data"`
}

// AbsentMember identifies one roster member with no record in the
// requested (device, date, shift) window.
type AbsentMember struct {
	Code       int    `json:"CODE"`
	MilkType   string `json:"MILKTYPE"`
	MemberName string `json:"MEMBERNAME"`
}

// AbsenceReport partitions a device roster into present and absent
// members for one date and shift.
type AbsenceReport struct {
	TotalMembers   int            `json:"totalMembers"`
	PresentCount   int            `json:"presentCount"`
	AbsentCount    int            `json:"absentCount"`
	TotalRecords   int            `json:"totalRecords"`
	CowAbsentCount int            `json:"cowAbsentCount"`
	BufAbsentCount int            `json:"bufAbsentCount"`
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	TotalPages     int            `json:"totalPages"`
	AbsentMembers  []AbsentMember `json:"absentMembers"`
}

// DailySnapshot is the scheduler-persisted end-of-day rollup for one
// device.
type DailySnapshot struct {
	DeviceID    string           `bson:"deviceid" json:"deviceid"`
	Date        string           `bson:"date" json:"date"`
	Totals      []MilkTypeTotals `bson:"totals" json:"totals"`
	GeneratedAt time.Time        `bson:"generatedAt" json:"generatedAt"`
}
