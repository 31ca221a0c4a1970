package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/billing"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/validation"
)

type CreateBillRequest struct {
	Date           string            `json:"date" binding:"required"`
	Time           string            `json:"time" binding:"required"`
	DoctorName     string            `json:"doctorName" binding:"required"`
	DoctorEmail    string            `json:"doctorEmail" binding:"required"`
	DoctorHospital string            `json:"doctorHospital" binding:"required"`
	Patient        string            `json:"patient" binding:"required"`
	Items          []models.LineItem `json:"items" binding:"required,min=1,dive"`
}

type UpdateBillRequest struct {
	Date           *string            `json:"date"`
	Time           *string            `json:"time" binding:"omitempty,hhmm"`
	DoctorName     *string            `json:"doctorName"`
	DoctorEmail    *string            `json:"doctorEmail"`
	DoctorHospital *string            `json:"doctorHospital"`
	Patient        *string            `json:"patient"`
	Items          *[]models.LineItem `json:"items" binding:"omitempty,min=1,dive"`
}

// --- CREATE BILL ---
// Checks run in a fixed order and nothing is written unless all of them pass.
func (h *Handler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err), err)
		return
	}
	if blank(req.DoctorName, req.DoctorEmail, req.DoctorHospital, req.Patient) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	date, err := validation.ParseBillDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
		return
	}
	if !validation.IsClockTime(req.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid time format. Use HH:mm"})
		return
	}

	// The email, not the display name, identifies the practitioner.
	doctor, err := h.Users.FindByEmail(c.Request.Context(), normalizeEmail(req.DoctorEmail))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Doctor not found"})
			return
		}
		h.serverError(c, "Error creating bill", err)
		return
	}

	bill := models.Bill{
		Date:           date,
		Time:           req.Time,
		DoctorName:     strings.TrimSpace(req.DoctorName),
		DoctorEmail:    doctor.Email,
		DoctorHospital: strings.TrimSpace(req.DoctorHospital),
		Patient:        strings.TrimSpace(req.Patient),
		Items:          models.NormalizeItems(req.Items),
	}
	if err := h.Bills.Create(c.Request.Context(), &bill); err != nil {
		h.serverError(c, "Error creating bill", err)
		return
	}
	h.Log.WithFields(logrus.Fields{"bill_id": bill.ID.Hex(), "items": len(bill.Items)}).Info("bill created")

	c.JSON(http.StatusCreated, gin.H{"message": "Bill created successfully", "bill": bill})
}

// --- LIST BILLS (with Filtering) ---
func (h *Handler) ListBills(c *gin.Context) {
	var filter models.BillFilter

	// e.g. /bills?startDate=2025-03-01&endDate=2025-03-31
	if s := c.Query("startDate"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid startDate, use YYYY-MM-DD"})
			return
		}
		filter.From = d
	}
	if s := c.Query("endDate"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid endDate, use YYYY-MM-DD"})
			return
		}
		filter.To = d
	}
	if email := c.Query("doctorEmail"); email != "" {
		filter.DoctorEmail = normalizeEmail(email)
	}
	filter.Patient = strings.TrimSpace(c.Query("patient"))

	bills, err := h.Bills.List(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, "Error fetching bills", err)
		return
	}

	c.JSON(http.StatusOK, billing.SummarizeAll(bills))
}

// --- DELETE BILL ---
// Items and codes live inside the bill document and go with it.
func (h *Handler) DeleteBill(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}

	if err := h.Bills.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Bill not found"})
			return
		}
		h.serverError(c, "Error deleting bill", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

// --- GET BILL ---
func (h *Handler) GetBill(c *gin.Context) {
	bill, ok := h.loadBill(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bill)
}

// GetBillStatement returns the itemized view used for bill details and printing.
func (h *Handler) GetBillStatement(c *gin.Context) {
	bill, ok := h.loadBill(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, billing.Itemize(*bill))
}

// --- UPDATE BILL ---
// Supplied fields replace the stored ones as they are, including the whole items list.
func (h *Handler) UpdateBill(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid bill data", err)
		return
	}
	for _, v := range []*string{req.Time, req.DoctorName, req.DoctorEmail, req.DoctorHospital, req.Patient} {
		if v != nil && strings.TrimSpace(*v) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
			return
		}
	}

	// Same normalization as CreateBill, so the email keeps matching the practitioner.
	upd := models.BillUpdate{
		Time:           req.Time,
		DoctorName:     mapString(req.DoctorName, strings.TrimSpace),
		DoctorEmail:    mapString(req.DoctorEmail, normalizeEmail),
		DoctorHospital: mapString(req.DoctorHospital, strings.TrimSpace),
		Patient:        mapString(req.Patient, strings.TrimSpace),
	}
	if req.Date != nil {
		date, err := validation.ParseBillDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
			return
		}
		upd.Date = &date
	}
	if req.Items != nil {
		items := models.NormalizeItems(*req.Items)
		upd.Items = &items
	}
	if upd.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}

	bill, err := h.Bills.Update(c.Request.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Bill not found"})
			return
		}
		h.serverError(c, "Error updating bill", err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) loadBill(c *gin.Context) (*models.Bill, bool) {
	id, ok := billID(c)
	if !ok {
		return nil, false
	}

	bill, err := h.Bills.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Bill not found"})
			return nil, false
		}
		h.serverError(c, "Error fetching bill", err)
		return nil, false
	}
	return bill, true
}

// bindingMessage distinguishes absent fields from malformed ones.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	for _, fe := range verrs {
		if fe.Tag() != "required" && !(fe.Tag() == "min" && fe.Field() == "items") {
			return "Invalid bill data"
		}
	}
	return "Missing required fields"
}

func mapString(v *string, f func(string) string) *string {
	if v == nil {
		return nil
	}
	out := f(*v)
	return &out
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
