package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill is one billing encounter. Doctor name and hospital are copied at creation time
// and are not kept in sync with later profile edits.
type Bill struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Date           time.Time          `bson:"date" json:"date"`
	Time           string             `bson:"time" json:"time"`
	DoctorName     string             `bson:"doctorName" json:"doctorName"`
	DoctorEmail    string             `bson:"doctorEmail" json:"doctorEmail"`
	DoctorHospital string             `bson:"doctorHospital" json:"doctorHospital"`
	Patient        string             `bson:"patient" json:"patient"`
	Items          []LineItem         `bson:"items" json:"items"`
}

type LineItem struct {
	Note  string        `bson:"note" json:"note" binding:"required"`
	Codes []BillingCode `bson:"codes" json:"codes" binding:"dive"`
}

type BillingCode struct {
	Code        string  `bson:"code" json:"code" binding:"required"`
	Description string  `bson:"description" json:"description" binding:"required"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice" binding:"min=0"`
	Unit        int     `bson:"unit" json:"unit" binding:"omitempty,min=1"`
	// AdjustedSubtotal is a manual price correction; when set it replaces UnitPrice*Unit.
	AdjustedSubtotal *float64 `bson:"adjustedSubtotal,omitempty" json:"adjustedSubtotal,omitempty" binding:"omitempty,min=0"`
}

// BillFilter narrows a bill listing. Zero values mean "no constraint".
type BillFilter struct {
	From        time.Time
	To          time.Time
	DoctorEmail string
	Patient     string
}

// BillUpdate replaces the supplied top-level fields of a bill. Nil fields are kept.
type BillUpdate struct {
	Date           *time.Time
	Time           *string
	DoctorName     *string
	DoctorEmail    *string
	DoctorHospital *string
	Patient        *string
	Items          *[]LineItem
}

// Empty reports whether the update would change nothing.
func (u BillUpdate) Empty() bool {
	return u.Date == nil && u.Time == nil && u.DoctorName == nil && u.DoctorEmail == nil &&
		u.DoctorHospital == nil && u.Patient == nil && u.Items == nil
}

// NormalizeItems fills in the default unit count of 1 wherever it was left out.
func NormalizeItems(items []LineItem) []LineItem {
	for i := range items {
		if items[i].Codes == nil {
			items[i].Codes = []BillingCode{}
		}
		for j := range items[i].Codes {
			if items[i].Codes[j].Unit == 0 {
				items[i].Codes[j].Unit = 1
			}
		}
	}
	return items
}
