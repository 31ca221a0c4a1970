package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/middleware"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/services"
)

type ClassifyNoteRequest struct {
	Note        string                  `json:"note" binding:"required"`
	ChatHistory []services.ChatExchange `json:"chatHistory"`
}

// ClassifyNote turns a dictated or typed note into a line item with suggested codes.
// When the classification service fails the item comes back with no codes instead of an error.
func (h *Handler) ClassifyNote(c *gin.Context) {
	var req ClassifyNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Note cannot be empty", err)
		return
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Note cannot be empty"})
		return
	}

	codes, err := h.Classifier.Classify(c.Request.Context(), note, req.ChatHistory)
	if err != nil {
		h.Log.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
		}).WithError(err).Warn("classification failed, returning note without codes")
		codes = nil
	}
	if codes == nil {
		codes = []models.BillingCode{}
	}

	c.JSON(http.StatusOK, models.LineItem{Note: note, Codes: codes})
}
