package models

import "time"

// Member statuses.
const (
	MemberActive   = "A"
	MemberDisabled = "D"
)

// Member is one roster entry owned by a device. The identity key is
// (CODE, MILKTYPE): the same numeric code may exist once as COW and
// once as BUF on the same device.
type Member struct {
	Code           int       `bson:"CODE" json:"CODE"`
	MilkType       string    `bson:"MILKTYPE" json:"MILKTYPE"`
	CommissionType string    `bson:"COMMISSIONTYPE" json:"COMMISSIONTYPE"`
	MemberName     string    `bson:"MEMBERNAME" json:"MEMBERNAME"`
	ContactNo      string    `bson:"CONTACTNO" json:"CONTACTNO"`
	Status         string    `bson:"STATUS" json:"STATUS"`
	CreatedOn      time.Time `bson:"createdOn" json:"createdOn"`
}
