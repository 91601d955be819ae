package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// ErrInvalidRecord indicates an intake payload that fails validation
// before any store access.
var ErrInvalidRecord = errors.New("invalid record payload")

// Service handles record intake, edits and lookups.
type Service struct {
	records mongodb.RecordStore
	logger  *zap.Logger
}

// NewService wires a record service instance.
func NewService(records mongodb.RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

// Add validates and stores a new collection record.
func (s *Service) Add(ctx context.Context, record models.Record) (models.Record, error) {
	if err := validate(record); err != nil {
		return models.Record{}, err
	}
	record.MilkType = strings.ToUpper(record.MilkType)
	record.Shift = strings.ToUpper(record.Shift)

	saved, err := s.records.Insert(ctx, record)
	if err != nil {
		return models.Record{}, err
	}

	s.logger.Debug("record stored",
		zap.String("device", saved.DeviceID),
		zap.Int("code", saved.Code),
		zap.String("date", saved.SampleDate),
		zap.String("shift", saved.Shift))
	return saved, nil
}

// Edit replaces an existing record by id. Edits are the only mutation
// path for stored records.
func (s *Service) Edit(ctx context.Context, id string, record models.Record) (models.Record, error) {
	if id == "" {
		return models.Record{}, fmt.Errorf("%w: record id is required", ErrInvalidRecord)
	}
	if err := validate(record); err != nil {
		return models.Record{}, err
	}
	record.MilkType = strings.ToUpper(record.MilkType)
	record.Shift = strings.ToUpper(record.Shift)
	return s.records.Update(ctx, id, record)
}

// GetByCodeDateShift fetches the single record of a member in one
// (device, date, shift) window.
func (s *Service) GetByCodeDateShift(ctx context.Context, deviceID string, code int, date, shift string) (models.Record, error) {
	if deviceID == "" || code <= 0 || date == "" || shift == "" {
		return models.Record{}, fmt.Errorf("%w: devicecode, code, date and shift are required", ErrInvalidRecord)
	}
	return s.records.FindOne(ctx, deviceID, code, date, strings.ToUpper(shift))
}

// ListByDateShift fetches every record of a (device, date, shift)
// window, matching the shift case-insensitively. An empty result is a
// not-found condition for this lookup.
func (s *Service) ListByDateShift(ctx context.Context, deviceID, date, shift string) ([]models.Record, error) {
	if deviceID == "" || date == "" || shift == "" {
		return nil, fmt.Errorf("%w: devicecode, date and shift are required", ErrInvalidRecord)
	}

	records, err := s.records.Find(ctx, mongodb.RecordFilter{
		DeviceID:   deviceID,
		SampleDate: date,
		Shift:      shift,
		ShiftFold:  true,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, mongodb.ErrNotFound
	}
	return records, nil
}

func validate(record models.Record) error {
	switch {
	case record.DeviceID == "":
		return fmt.Errorf("%w: DEVICEID is required", ErrInvalidRecord)
	case record.Code <= 0:
		return fmt.Errorf("%w: CODE must be positive", ErrInvalidRecord)
	case record.Qty < 0 || record.Rate < 0:
		return fmt.Errorf("%w: QTY and RATE must not be negative", ErrInvalidRecord)
	}

	milkType := strings.ToUpper(record.MilkType)
	if milkType != models.MilkTypeCow && milkType != models.MilkTypeBuf {
		return fmt.Errorf("%w: MILKTYPE must be COW or BUF", ErrInvalidRecord)
	}

	shift := strings.ToUpper(record.Shift)
	if shift != models.ShiftMorning && shift != models.ShiftEvening {
		return fmt.Errorf("%w: SHIFT must be MORNING or EVENING", ErrInvalidRecord)
	}

	if _, err := time.Parse(models.SampleDateLayout, strings.TrimSpace(record.SampleDate)); err != nil {
		return fmt.Errorf("%w: SAMPLEDATE must be DD/MM/YYYY", ErrInvalidRecord)
	}
	return nil
}
