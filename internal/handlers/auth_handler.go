// internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/models"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/utils"
)

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers a practitioner. The password is hashed before it is stored.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Check all fields.", err)
		return
	}
	email := normalizeEmail(req.Email)

	// The unique index is the real guard; this lookup only gives the common case a clean answer.
	if _, err := h.Users.FindByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use."})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.serverError(c, "Server error", err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.PasswordCost)
	if err != nil {
		h.serverError(c, "Failed to hash password", err)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
	}
	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use."})
			return
		}
		h.serverError(c, "Failed to create user", err)
		return
	}
	h.Log.WithField("user_id", user.ID.Hex()).Info("user registered")

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully."})
}

// SignIn checks credentials and issues a session token.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid email or password", err)
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
			return
		}
		h.serverError(c, "Server error", err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
		return
	}

	token, _, err := h.JWT.GenerateJWT(user.ID.Hex())
	if err != nil {
		h.serverError(c, "Could not generate token", err)
		return
	}
	h.Log.WithFields(logrus.Fields{"user_id": user.ID.Hex()}).Debug("session issued")

	// json:"-" on Password keeps the hash out of the response
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user, "message": "Success"})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
