package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/utils"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,strongpwd"`
}

// GetProfile returns the authenticated user without the password hash.
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.serverError(c, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile changes name, hospital and specialties. Bills already issued keep the
// hospital they were created with.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.serverError(c, "Error updating profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// ChangePassword re-verifies the current password before storing a new hash.
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.serverError(c, "Error updating password", err)
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword, h.PasswordCost)
	if err != nil {
		h.serverError(c, "Error updating password", err)
		return
	}
	if err := h.Users.UpdatePassword(c.Request.Context(), id, hashed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.serverError(c, "Error updating password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}
