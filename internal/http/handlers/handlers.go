package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/growfix/backend/internal/db"
	"github.com/growfix/backend/internal/service"
)

type Handler struct {
	Store      *db.Store
	Complaints *service.ComplaintService
	Leads      *service.LeadService
	Assigner   *service.AssignmentService
	Validator  *validator.Validate
	Logger     zerolog.Logger
	AdminKey   string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeServiceError maps the workflow's typed failures onto HTTP statuses;
// anything unrecognized is a 500.
func writeServiceError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeError(c, http.StatusConflict, "IDENTITY_CONFLICT", "Submission conflicts with an existing account", conflict.Fields)
	case errors.Is(err, service.ErrInvalidCategory):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown assignment category", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown complaint status", nil)
	case errors.Is(err, service.ErrAlreadyConfirmed):
		writeError(c, http.StatusConflict, "ALREADY_CONFIRMED", "Complaint is already confirmed", nil)
	case errors.Is(err, service.ErrLeadConverted):
		writeError(c, http.StatusConflict, "LEAD_CONVERTED", "Lead is already converted", nil)
	case errors.Is(err, service.ErrLeadMissingPhone):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Lead has no phone number", nil)
	case errors.Is(err, service.ErrUnknownProvider):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Assigned provider not found", nil)
	case errors.Is(err, pgx.ErrNoRows):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Request failed", err.Error())
	}
}
