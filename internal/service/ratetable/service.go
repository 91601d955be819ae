package ratetable

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// Upload failure modes, all checked before the first store write.
var (
	ErrUnauthorized     = errors.New("caller role cannot upload rate tables")
	ErrNoRows           = errors.New("rate table input has no rows")
	ErrBadEffectiveDate = errors.New("invalid or missing effective date")
	ErrUnknownKind      = errors.New("unknown rate table kind")
)

// secondaryPrefix maps a two-axis table kind to the token stripped
// from its column headers.
var secondaryPrefix = map[string]string{
	models.TableSnfCow: "SNF",
	models.TableSnfBuf: "SNF",
	models.TableClrCow: "clr",
}

// UploadInput is a parsed rate-table upload: the CSV header row, the
// data rows, and the caller-supplied effective date.
type UploadInput struct {
	Kind          string
	Headers       []string
	Rows          [][]string
	EffectiveDate string
	// TargetDeviceID lets a dairy upload a device-scoped table for one
	// of its own devices.
	TargetDeviceID string
}

// Result reports what an upload wrote.
type Result struct {
	OwnerID       string           `json:"updatedId"`
	OwnerType     string           `json:"ownerType"`
	Kind          string           `json:"kind"`
	ChartID       int              `json:"chartId"`
	EffectiveDate string           `json:"effectiveDate"`
	Rows          int              `json:"rows"`
	Table         models.RateTable `json:"table,omitempty"`
}

// Service ingests rate-card reference tables and installs them on
// their owner, regenerating the chart identifier and effective-date
// stamp on every upload.
type Service struct {
	devices mongodb.DeviceStore
	dairies mongodb.DairyStore
	logger  *zap.Logger
	chartID func() int
}

// NewService wires a rate table service instance.
func NewService(devices mongodb.DeviceStore, dairies mongodb.DairyStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		devices: devices,
		dairies: dairies,
		logger:  logger,
		chartID: func() int { return 1000 + rand.Intn(9000) },
	}
}

// Upload validates the caller and input, builds the normalized table
// and installs it. A device-owned upload is a single document update
// (table, chart id, effective date and override flag together). A
// dairy-owned upload writes the dairy document first and then
// propagates chart id and effective date to every device of the dairy
// with the override flag cleared; a failure between the two writes
// leaves the store partially updated and is surfaced as-is.
func (s *Service) Upload(ctx context.Context, caller models.Identity, in UploadInput) (Result, error) {
	if caller.Role != models.RoleDairy && caller.Role != models.RoleDevice {
		return Result{}, ErrUnauthorized
	}
	if len(in.Rows) == 0 {
		return Result{}, ErrNoRows
	}

	stamp, err := effectiveStamp(in.EffectiveDate)
	if err != nil {
		return Result{}, err
	}

	isDevice := caller.Role == models.RoleDevice
	ownerID := caller.DairyCode
	if isDevice {
		ownerID = caller.DeviceID
	}

	// A dairy may target one of its own devices explicitly; ownership
	// is checked before anything is written.
	if !isDevice && in.TargetDeviceID != "" {
		if _, err := s.devices.FindOwned(ctx, caller.DairyCode, in.TargetDeviceID); err != nil {
			return Result{}, fmt.Errorf("device %s not under dairy %s: %w", in.TargetDeviceID, caller.DairyCode, err)
		}
		isDevice = true
		ownerID = in.TargetDeviceID
	}
	if ownerID == "" {
		return Result{}, fmt.Errorf("%w: caller has no owner identifier", ErrUnauthorized)
	}

	result := Result{
		OwnerID:       ownerID,
		Kind:          in.Kind,
		ChartID:       s.chartID(),
		EffectiveDate: stamp,
		OwnerType:     models.RoleDairy,
	}
	if isDevice {
		result.OwnerType = models.RoleDevice
	}

	var table interface{}
	switch in.Kind {
	case models.TableFatCow, models.TableFatBuf:
		entries, err := BuildSingleAxis(in.Headers, in.Rows)
		if err != nil {
			return Result{}, err
		}
		result.Rows = len(entries)
		table = entries
	case models.TableSnfCow, models.TableSnfBuf, models.TableClrCow:
		built, err := BuildTwoAxis(in.Headers, in.Rows, secondaryPrefix[in.Kind])
		if err != nil {
			return Result{}, err
		}
		result.Rows = len(built)
		result.Table = built
		table = built
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}

	if isDevice {
		if err := s.devices.ApplyRateTable(ctx, ownerID, in.Kind, table, result.ChartID, stamp); err != nil {
			return Result{}, err
		}
	} else {
		if err := s.dairies.SetRateTable(ctx, ownerID, in.Kind, table); err != nil {
			return Result{}, err
		}
		// Second, unguarded write: a failure here leaves the dairy
		// table installed without the propagated metadata.
		if err := s.devices.ApplyDairyTableMeta(ctx, ownerID, in.Kind, result.ChartID, stamp); err != nil {
			return Result{}, fmt.Errorf("table stored but metadata propagation failed: %w", err)
		}
	}

	s.logger.Info("rate table installed",
		zap.String("kind", in.Kind),
		zap.String("owner", ownerID),
		zap.String("ownerType", result.OwnerType),
		zap.Int("chartId", result.ChartID),
		zap.String("effectiveDate", stamp),
		zap.Int("rows", result.Rows))

	return result, nil
}

// effectiveStamp normalizes a caller-supplied date to the DDMMYY form
// recorded alongside the table.
func effectiveStamp(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrBadEffectiveDate
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", time.RFC3339} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("020106"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadEffectiveDate, value)
}
