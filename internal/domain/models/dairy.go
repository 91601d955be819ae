package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dairy owns a fleet of devices. Its rate tables apply to every device
// that has not uploaded an override of its own.
type Dairy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DairyCode   string             `bson:"dairyCode" json:"dairyCode"`
	DairyName   string             `bson:"dairyName" json:"dairyName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	FatCowTable []FatRateEntry     `bson:"fatCowTable" json:"fatCowTable"`
	FatBufTable []FatRateEntry     `bson:"fatBufTable" json:"fatBufTable"`
	SnfCowTable RateTable          `bson:"snfCowTable" json:"snfCowTable"`
	SnfBufTable RateTable          `bson:"snfBufTable" json:"snfBufTable"`
	ClrCowTable RateTable          `bson:"clrCowTable,omitempty" json:"clrCowTable,omitempty"`
	CreatedOn   time.Time          `bson:"createdOn" json:"createdOn"`
}
