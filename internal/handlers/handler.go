package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/middleware"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/services"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/store"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/utils"
	"github.com/pxpgh1/Medical-AI-Billing-Assistant/internal/validation"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	Users      store.UserStore
	Bills      store.BillStore
	Classifier services.Classifier
	JWT        *utils.JWTManager
	Log        *logrus.Logger

	// bcrypt cost for new hashes; zero means utils.DefaultPasswordCost
	PasswordCost int
}

func NewHandler(users store.UserStore, bills store.BillStore, classifier services.Classifier, jwt *utils.JWTManager, log *logrus.Logger) *Handler {
	return &Handler{
		Users:      users,
		Bills:      bills,
		Classifier: classifier,
		JWT:        jwt,
		Log:        log,
	}
}

// serverError logs the cause and answers with a generic message. Storage errors never
// reach the client.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Log.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.CtxRequestIDKey),
		"path":       c.FullPath(),
	}).WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg})
}

// badRequest answers 400 with the binding error translated into per-field details.
func badRequest(c *gin.Context, msg string, err error) {
	body := gin.H{"message": msg}
	if err != nil {
		body["details"] = validation.ToDetails(err)
	}
	c.JSON(http.StatusBadRequest, body)
}

// callerID resolves the authenticated user's id from the context.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid token"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// billID parses the :id path parameter.
func billID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid bill ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}
