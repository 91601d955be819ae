package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller roles.
const (
	RoleAdmin  = "admin"
	RoleDairy  = "dairy"
	RoleDevice = "device"
)

// ServerSettings carries the per-device collection mode switches the
// intake firmware reads. Values are the Y/N flag strings the devices
// expect.
type ServerSettings struct {
	ServerControl     string   `bson:"serverControl" json:"serverControl"`
	WeightMode        string   `bson:"weightMode" json:"weightMode"`
	FatMode           string   `bson:"fatMode" json:"fatMode"`
	Analyzer          string   `bson:"analyzer" json:"analyzer"`
	UseCowSNF         string   `bson:"useCowSnf" json:"useCowSnf"`
	UseBufSNF         string   `bson:"useBufSnf" json:"useBufSnf"`
	CLRBasedTable     string   `bson:"clrBasedTable" json:"clrBasedTable"`
	HighFatAccept     string   `bson:"highFatAccept" json:"highFatAccept"`
	LowFatAccept      string   `bson:"lowFatAccept" json:"lowFatAccept"`
	DPUMemberList     string   `bson:"dpuMemberList" json:"dpuMemberList"`
	DPURateTables     string   `bson:"dpuRateTables" json:"dpuRateTables"`
	DPUCollectionMode string   `bson:"dpuCollectionModeControl" json:"dpuCollectionModeControl"`
	AutoTransfer      string   `bson:"autoTransfer" json:"autoTransfer"`
	AutoShiftClose    string   `bson:"autoShiftClose" json:"autoShiftClose"`
	MixedMilk         string   `bson:"mixedMilk" json:"mixedMilk"`
	MachineLock       string   `bson:"machineLock" json:"machineLock"`
	CommissionType    string   `bson:"commissionType" json:"commissionType"`
	NormalCommission  string   `bson:"normalCommission" json:"normalCommission"`
	SpecialCommission []string `bson:"specialCommission" json:"specialCommission"`
}

// DefaultServerSettings mirrors the defaults a freshly registered
// device starts with.
func DefaultServerSettings() ServerSettings {
	return ServerSettings{
		ServerControl:     "N",
		WeightMode:        "1",
		FatMode:           "1",
		Analyzer:          "U",
		UseCowSNF:         "Y",
		UseBufSNF:         "Y",
		CLRBasedTable:     "N",
		HighFatAccept:     "Y",
		LowFatAccept:      "Y",
		DPUMemberList:     "N",
		DPURateTables:     "N",
		DPUCollectionMode: "Y",
		AutoTransfer:      "N",
		AutoShiftClose:    "N",
		MixedMilk:         "N",
		MachineLock:       "N",
		CommissionType:    "N",
		NormalCommission:  "0.00",
		SpecialCommission: []string{},
	}
}

// RateTableFlags marks, per table kind, whether the device carries its
// own uploaded table instead of the dairy-level default.
type RateTableFlags struct {
	FatBufTable bool `bson:"fatBufTable" json:"fatBufTable"`
	FatCowTable bool `bson:"fatCowTable" json:"fatCowTable"`
	SnfBufTable bool `bson:"snfBufTable" json:"snfBufTable"`
	SnfCowTable bool `bson:"snfCowTable" json:"snfCowTable"`
	ClrCowTable bool `bson:"clrCowTable" json:"clrCowTable"`
}

// RateChartIDs holds the small random identifiers regenerated on every
// table upload so devices can detect that a chart changed.
type RateChartIDs struct {
	FatBufID int `bson:"fatBufId" json:"fatBufId"`
	FatCowID int `bson:"fatCowId" json:"fatCowId"`
	SnfBufID int `bson:"snfBufId" json:"snfBufId"`
	SnfCowID int `bson:"snfCowId" json:"snfCowId"`
	ClrCowID int `bson:"clrCowId" json:"clrCowId"`
}

// EffectiveDates stores the normalized DDMMYY stamps recorded with
// each table upload.
type EffectiveDates struct {
	FatBufEffectiveDate string `bson:"fatBufEffectiveDate" json:"fatBufEffectiveDate"`
	FatCowEffectiveDate string `bson:"fatCowEffectiveDate" json:"fatCowEffectiveDate"`
	SnfBufEffectiveDate string `bson:"snfBufEffectiveDate" json:"snfBufEffectiveDate"`
	SnfCowEffectiveDate string `bson:"snfCowEffectiveDate" json:"snfCowEffectiveDate"`
	ClrCowEffectiveDate string `bson:"clrCowEffectiveDate" json:"clrCowEffectiveDate"`
}

// Device is one collection point. It owns the member roster and may
// shadow its dairy's rate tables with its own uploads.
type Device struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DeviceID          string             `bson:"deviceid" json:"deviceid"`
	DairyCode         string             `bson:"dairyCode" json:"dairyCode"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	Status            string             `bson:"status" json:"status"`
	Role              string             `bson:"role" json:"role"`
	IsDeviceRateTable RateTableFlags     `bson:"isDeviceRateTable" json:"isDeviceRateTable"`
	RateChartIDs      RateChartIDs       `bson:"rateChartIds" json:"rateChartIds"`
	EffectiveDates    EffectiveDates     `bson:"effectiveDates" json:"effectiveDates"`
	ServerSettings    ServerSettings     `bson:"serverSettings" json:"serverSettings"`
	FatCowTable       []FatRateEntry     `bson:"fatCowTable" json:"fatCowTable"`
	FatBufTable       []FatRateEntry     `bson:"fatBufTable" json:"fatBufTable"`
	SnfCowTable       RateTable          `bson:"snfCowTable" json:"snfCowTable"`
	SnfBufTable       RateTable          `bson:"snfBufTable" json:"snfBufTable"`
	ClrCowTable       RateTable          `bson:"clrCowTable,omitempty" json:"clrCowTable,omitempty"`
	Members           []Member           `bson:"members" json:"members"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
