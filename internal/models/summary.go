package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SummaryRow is the flattened projection of a bill used by list views.
type SummaryRow struct {
	ID      primitive.ObjectID `json:"id"`
	Date    string             `json:"date"`
	Time    string             `json:"time"`
	Doctor  string             `json:"doctor"`
	Patient string             `json:"patient"`
	Notes   string             `json:"notes"`
	Codes   string             `json:"codes"`
	Total   string             `json:"total"`
}

// Statement is the itemized projection used by detail and print views.
type Statement struct {
	ID             primitive.ObjectID `json:"id"`
	IssuedAt       string             `json:"issuedAt"`
	DoctorName     string             `json:"doctorName"`
	DoctorEmail    string             `json:"doctorEmail"`
	DoctorHospital string             `json:"doctorHospital"`
	Patient        string             `json:"patient"`
	Items          []StatementItem    `json:"items"`
	Total          string             `json:"total"`
}

type StatementItem struct {
	Number   int             `json:"number"`
	Note     string          `json:"note"`
	Lines    []StatementLine `json:"lines"`
	Subtotal string          `json:"subtotal"`
}

type StatementLine struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
	Unit        int    `json:"unit"`
	Amount      string `json:"amount"`
	Adjusted    bool   `json:"adjusted"`
}
