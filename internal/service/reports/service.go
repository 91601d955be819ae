package reports

import (
	"errors"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/repository/mongodb"
)

// ErrInvalidFilter indicates a missing or malformed required filter
// parameter. Checked before any store access.
var ErrInvalidFilter = errors.New("invalid report filter")

// ErrNoRecords indicates a datewise or codewise window matched no
// records at all. The paginated ledger and summary variants return
// their empty shapes instead.
var ErrNoRecords = errors.New("no records found for the given criteria")

// Default pagination limits per report variant.
const (
	defaultSummaryLimit    = 25
	defaultCumulativeLimit = 25
	defaultAbsenceLimit    = 10
)

// Service is the reporting aggregation engine. Every report is
// recomputed from the store on each call; the service holds no state
// between requests.
type Service struct {
	records mongodb.RecordStore
	devices mongodb.DeviceStore
	logger  *zap.Logger
}

// NewService wires a reporting service instance.
func NewService(records mongodb.RecordStore, devices mongodb.DeviceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, devices: devices, logger: logger}
}
