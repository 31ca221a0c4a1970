// Package billing derives presentation values from stored bills. Totals are never
// persisted; every view computes them through the functions in this package.
package billing

import (
	"strconv"
	"strings"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// CodeAmount is what a single code contributes to a bill: the adjusted subtotal when one
// was recorded, otherwise unit price times unit count.
func CodeAmount(code models.BillingCode) float64 {
	if code.AdjustedSubtotal != nil {
		return *code.AdjustedSubtotal
	}
	return code.UnitPrice * float64(code.Unit)
}

// ComputeSubtotal sums the amounts of one line item's codes.
func ComputeSubtotal(item models.LineItem) float64 {
	var sum float64
	for _, code := range item.Codes {
		sum += CodeAmount(code)
	}
	return sum
}

// ComputeTotal sums every code of every line item.
func ComputeTotal(items []models.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += ComputeSubtotal(item)
	}
	return sum
}

// FormatAmount renders a money value with exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// JoinCodes flattens every code string of every item, in item order then code order.
func JoinCodes(items []models.LineItem) string {
	var codes []string
	for _, item := range items {
		for _, code := range item.Codes {
			codes = append(codes, code.Code)
		}
	}
	return strings.Join(codes, ", ")
}

// Summarize projects a bill into a list row. It does not modify the bill.
func Summarize(bill models.Bill) models.SummaryRow {
	notes := ""
	if len(bill.Items) > 0 {
		notes = bill.Items[0].Note
	}
	return models.SummaryRow{
		ID:      bill.ID,
		Date:    bill.Date.UTC().Format(dateLayout),
		Time:    bill.Time,
		Doctor:  bill.DoctorName,
		Patient: bill.Patient,
		Notes:   notes,
		Codes:   JoinCodes(bill.Items),
		Total:   FormatAmount(ComputeTotal(bill.Items)),
	}
}

// SummarizeAll maps Summarize over bills, preserving order. The result is never nil.
func SummarizeAll(bills []models.Bill) []models.SummaryRow {
	rows := make([]models.SummaryRow, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, Summarize(b))
	}
	return rows
}

// Itemize builds the detail/print projection of a bill.
func Itemize(bill models.Bill) models.Statement {
	st := models.Statement{
		ID:             bill.ID,
		IssuedAt:       issuedAt(bill),
		DoctorName:     bill.DoctorName,
		DoctorEmail:    bill.DoctorEmail,
		DoctorHospital: bill.DoctorHospital,
		Patient:        bill.Patient,
		Items:          make([]models.StatementItem, 0, len(bill.Items)),
		Total:          FormatAmount(ComputeTotal(bill.Items)),
	}
	for i, item := range bill.Items {
		row := models.StatementItem{
			Number:   i + 1,
			Note:     item.Note,
			Lines:    make([]models.StatementLine, 0, len(item.Codes)),
			Subtotal: FormatAmount(ComputeSubtotal(item)),
		}
		for _, code := range item.Codes {
			row.Lines = append(row.Lines, models.StatementLine{
				Code:        code.Code,
				Description: code.Description,
				UnitPrice:   FormatAmount(code.UnitPrice),
				Unit:        code.Unit,
				Amount:      FormatAmount(CodeAmount(code)),
				Adjusted:    code.AdjustedSubtotal != nil,
			})
		}
		st.Items = append(st.Items, row)
	}
	return st
}

// issuedAt combines the calendar date with the recorded time of day.
func issuedAt(bill models.Bill) string {
	day := bill.Date.UTC().Format(dateLayout)
	if bill.Time == "" {
		return bill.Date.UTC().Format(dateTimeLayout)
	}
	return day + " " + bill.Time
}
