package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
)

// ErrInvalidInput indicates a malformed dairy, device or member
// payload, rejected before any store access.
var ErrInvalidInput = errors.New("invalid registry input")

var dairyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Service manages dairies, devices and device rosters.
type Service struct {
	devices mongodb.DeviceStore
	dairies mongodb.DairyStore
	logger  *zap.Logger
}

// NewService wires a registry service instance.
func NewService(devices mongodb.DeviceStore, dairies mongodb.DairyStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{devices: devices, dairies: dairies, logger: logger}
}

// NewDairyInput carries the fields required to register a dairy.
type NewDairyInput struct {
	DairyCode string `json:"dairyCode" binding:"required"`
	DairyName string `json:"dairyName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// CreateDairy registers a dairy with a hashed password and empty rate
// tables.
func (s *Service) CreateDairy(ctx context.Context, in NewDairyInput) (models.Dairy, error) {
	code := strings.ToUpper(strings.TrimSpace(in.DairyCode))
	if !dairyCodePattern.MatchString(code) {
		return models.Dairy{}, fmt.Errorf("%w: dairyCode must be three uppercase letters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Dairy{}, fmt.Errorf("hash password: %w", err)
	}

	dairy := models.Dairy{
		DairyCode:   code,
		DairyName:   in.DairyName,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Password:    string(hash),
		Role:        models.RoleDairy,
		FatCowTable: []models.FatRateEntry{},
		FatBufTable: []models.FatRateEntry{},
		SnfCowTable: models.RateTable{},
		SnfBufTable: models.RateTable{},
		CreatedOn:   time.Now().UTC(),
	}
	if err := s.dairies.Insert(ctx, dairy); err != nil {
		return models.Dairy{}, err
	}

	s.logger.Info("dairy registered", zap.String("dairyCode", code))
	return dairy, nil
}

// GetDairyByCode fetches a dairy by its three-letter code.
func (s *Service) GetDairyByCode(ctx context.Context, dairyCode string) (models.Dairy, error) {
	if dairyCode == "" {
		return models.Dairy{}, fmt.Errorf("%w: dairyCode is required", ErrInvalidInput)
	}
	return s.dairies.FindByCode(ctx, strings.ToUpper(dairyCode))
}

// DeleteDairy removes a dairy registration.
func (s *Service) DeleteDairy(ctx context.Context, dairyCode string) error {
	if dairyCode == "" {
		return fmt.Errorf("%w: dairyCode is required", ErrInvalidInput)
	}
	return s.dairies.Delete(ctx, strings.ToUpper(dairyCode))
}

// NewDeviceInput carries the fields required to register a device.
type NewDeviceInput struct {
	DeviceID  string `json:"deviceid" binding:"required"`
	DairyCode string `json:"dairyCode" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// CreateDevice registers a collection device under a dairy. The dairy
// must already exist.
func (s *Service) CreateDevice(ctx context.Context, in NewDeviceInput) (models.Device, error) {
	code := strings.ToUpper(strings.TrimSpace(in.DairyCode))
	if !dairyCodePattern.MatchString(code) {
		return models.Device{}, fmt.Errorf("%w: dairyCode must be three uppercase letters", ErrInvalidInput)
	}
	if _, err := s.dairies.FindByCode(ctx, code); err != nil {
		return models.Device{}, fmt.Errorf("dairy %s: %w", code, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Device{}, fmt.Errorf("hash password: %w", err)
	}

	device := models.Device{
		DeviceID:       strings.TrimSpace(in.DeviceID),
		DairyCode:      code,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Password:       string(hash),
		Status:         "active",
		Role:           models.RoleDevice,
		ServerSettings: models.DefaultServerSettings(),
		FatCowTable:    []models.FatRateEntry{},
		FatBufTable:    []models.FatRateEntry{},
		SnfCowTable:    models.RateTable{},
		SnfBufTable:    models.RateTable{},
		Members:        []models.Member{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.devices.Insert(ctx, device); err != nil {
		return models.Device{}, err
	}

	s.logger.Info("device registered", zap.String("deviceid", device.DeviceID), zap.String("dairyCode", code))
	return device, nil
}

// GetDevice fetches a device by its device identifier.
func (s *Service) GetDevice(ctx context.Context, deviceID string) (models.Device, error) {
	if deviceID == "" {
		return models.Device{}, fmt.Errorf("%w: deviceid is required", ErrInvalidInput)
	}
	return s.devices.FindByDeviceID(ctx, deviceID)
}

// DeleteDevice removes a device registration.
func (s *Service) DeleteDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: deviceid is required", ErrInvalidInput)
	}
	return s.devices.Delete(ctx, deviceID)
}

// MemberInput carries one roster entry payload.
type MemberInput struct {
	Code           int    `json:"CODE" binding:"required"`
	MilkType       string `json:"MILKTYPE" binding:"required"`
	CommissionType string `json:"COMMISSIONTYPE"`
	MemberName     string `json:"MEMBERNAME" binding:"required"`
	ContactNo      string `json:"CONTACTNO"`
	Status         string `json:"STATUS"`
}

func (in MemberInput) toMember() (models.Member, error) {
	milkType := strings.ToUpper(strings.TrimSpace(in.MilkType))
	if milkType != models.MilkTypeCow && milkType != models.MilkTypeBuf {
		return models.Member{}, fmt.Errorf("%w: MILKTYPE must be COW or BUF", ErrInvalidInput)
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.MemberActive
	}
	return models.Member{
		Code:           in.Code,
		MilkType:       milkType,
		CommissionType: in.CommissionType,
		MemberName:     in.MemberName,
		ContactNo:      in.ContactNo,
		Status:         status,
		CreatedOn:      time.Now().UTC(),
	}, nil
}

// AddMember appends one roster entry to a device.
func (s *Service) AddMember(ctx context.Context, deviceID string, in MemberInput) (models.Member, error) {
	member, err := in.toMember()
	if err != nil {
		return models.Member{}, err
	}
	if err := s.devices.AddMember(ctx, deviceID, member); err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// EditMember rewrites the roster entry matching (CODE, MILKTYPE).
func (s *Service) EditMember(ctx context.Context, deviceID string, in MemberInput) (models.Member, error) {
	member, err := in.toMember()
	if err != nil {
		return models.Member{}, err
	}
	if err := s.devices.UpdateMember(ctx, deviceID, member); err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// RemoveMember deletes the roster entry matching (CODE, MILKTYPE).
func (s *Service) RemoveMember(ctx context.Context, deviceID string, code int, milkType string) error {
	if deviceID == "" || code <= 0 {
		return fmt.Errorf("%w: deviceid and CODE are required", ErrInvalidInput)
	}
	return s.devices.RemoveMember(ctx, deviceID, code, strings.ToUpper(milkType))
}

// ReplaceRoster overwrites the full roster of a device from parsed
// tabular input (header row plus data rows).
func (s *Service) ReplaceRoster(ctx context.Context, deviceID string, headers []string, rows [][]string) (int, error) {
	if deviceID == "" {
		return 0, fmt.Errorf("%w: deviceid is required", ErrInvalidInput)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: roster input has no rows", ErrInvalidInput)
	}

	index := map[string]int{}
	for i, header := range headers {
		index[strings.ToUpper(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"CODE", "MILKTYPE", "MEMBERNAME"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("%w: roster input is missing the %s column", ErrInvalidInput, required)
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	members := make([]models.Member, 0, len(rows))
	for _, row := range rows {
		code, err := strconv.Atoi(cell(row, "CODE"))
		if err != nil || code <= 0 {
			continue
		}
		members = append(members, models.Member{
			Code:           code,
			MilkType:       strings.ToUpper(cell(row, "MILKTYPE")),
			CommissionType: cell(row, "COMMISSIONTYPE"),
			MemberName:     cell(row, "MEMBERNAME"),
			ContactNo:      cell(row, "CONTACTNO"),
			Status:         strings.ToUpper(cell(row, "STATUS")),
			CreatedOn:      time.Now().UTC(),
		})
	}

	if err := s.devices.ReplaceMembers(ctx, deviceID, members); err != nil {
		return 0, err
	}

	s.logger.Info("roster replaced", zap.String("deviceid", deviceID), zap.Int("members", len(members)))
	return len(members), nil
}
