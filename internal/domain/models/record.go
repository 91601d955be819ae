package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Milk type categories. Grouped reports always reserve a synthetic
// TOTAL (or ALL) row alongside COW and BUF.
const (
	MilkTypeCow   = "COW"
	MilkTypeBuf   = "BUF"
	MilkTypeTotal = "TOTAL"
	MilkTypeAll   = "ALL"
)

// Collection shifts. BOTH is accepted on report filters to mean no
// shift restriction.
const (
	ShiftMorning = "MORNING"
	ShiftEvening = "EVENING"
	ShiftBoth    = "BOTH"
)

// SampleDateLayout is the textual day/month/year form intake devices
// write into SAMPLEDATE.
const SampleDateLayout = "02/01/2006"

// Record is a single milk-collection event. Field names mirror the
// intake device payloads, which use uppercase keys on the wire and in
// the store.
type Record struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DeviceID           string             `bson:"DEVICEID" json:"DEVICEID"`
	Code               int                `bson:"CODE" json:"CODE"`
	Name               string             `bson:"NAME" json:"NAME"`
	MilkType           string             `bson:"MILKTYPE" json:"MILKTYPE"`
	Fat                float64            `bson:"FAT" json:"FAT"`
	SNF                float64            `bson:"SNF" json:"SNF"`
	CLR                float64            `bson:"CLR" json:"CLR"`
	Qty                float64            `bson:"QTY" json:"QTY"`
	Rate               float64            `bson:"RATE" json:"RATE"`
	SampleDate         string             `bson:"SAMPLEDATE" json:"SAMPLEDATE"`
	SampleTime         string             `bson:"SAMPLETIME" json:"SAMPLETIME"`
	Shift              string             `bson:"SHIFT" json:"SHIFT"`
	AnalyzerMode       string             `bson:"ANALYZERMODE,omitempty" json:"ANALYZERMODE,omitempty"`
	WeightMode         string             `bson:"WEIGHTMODE,omitempty" json:"WEIGHTMODE,omitempty"`
	Water              float64            `bson:"WATER,omitempty" json:"WATER,omitempty"`
	AnalyzerSampleTime string             `bson:"ANALYZERSAMPLETIME,omitempty" json:"ANALYZERSAMPLETIME,omitempty"`
	Incentive          float64            `bson:"INCENTIVEAMOUNT" json:"INCENTIVEAMOUNT"`
	RecordType         string             `bson:"RECORDTYPE,omitempty" json:"RECORDTYPE,omitempty"`
}

// Amount is the priced value of the collection before incentives.
func (r Record) Amount() float64 {
	return r.Qty * r.Rate
}

// GrandTotal is amount plus incentive.
func (r Record) GrandTotal() float64 {
	return r.Amount() + r.Incentive
}
