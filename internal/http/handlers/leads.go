package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/growfix/backend/internal/models"
	"github.com/growfix/backend/internal/service"
)

type leadWebhookRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	PhoneModel    string `json:"phone_model"`
	IssueDetail   string `json:"issue_detail"`
	Address       string `json:"address"`
	Pincode       string `json:"pincode"`
	Area          string `json:"area"`
	Source        string `json:"source"`
	VisitorID     string `json:"visitor_id"`
}

// @Summary Website enquiry webhook
// @Description Records a form submission as a lead, folding repeats into the open lead for the same phone or visitor
// @Tags leads
// @Accept json
// @Produce json
// @Success 200 {object} models.Lead
// @Router /api/leads/webhook [post]
func (h *Handler) LeadWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	var req leadWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if req.CustomerPhone == "" && req.VisitorID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_phone or visitor_id is required", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	lead, err := h.Leads.Ingest(c.Request.Context(), service.LeadInput{
		Name:        req.CustomerName,
		Phone:       req.CustomerPhone,
		Email:       req.Email,
		PhoneModel:  req.PhoneModel,
		IssueDetail: req.IssueDetail,
		Address:     req.Address,
		Pincode:     req.Pincode,
		Area:        req.Area,
		Source:      req.Source,
		VisitorID:   req.VisitorID,
		RawPayload:  raw,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// LeadPrefill returns the open lead for a phone or visitor so the complaint
// form can be pre-populated.
func (h *Handler) LeadPrefill(c *gin.Context) {
	phone := c.Query("customer_phone")
	visitor := c.Query("visitor_id")
	if phone == "" && visitor == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_phone or visitor_id is required", nil)
		return
	}

	var lead *models.Lead
	var err error
	if phone != "" {
		lead, err = h.Store.FindLeadByPhone(c.Request.Context(), phone)
	} else {
		lead, err = h.Store.FindLeadByVisitor(c.Request.Context(), visitor)
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Lookup failed", err.Error())
		return
	}
	if lead == nil || lead.Status == models.LeadConverted {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No open lead", nil)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) LeadsList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	leads, err := h.Store.ListLeads(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list leads", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

type promoteLeadRequest struct {
	AssignTo   string `json:"assign_to" validate:"required"`
	ProviderID string `json:"provider_id" validate:"required"`
	Status     string `json:"status"`
}

// @Summary Convert a lead into a complaint
// @Tags leads
// @Accept json
// @Produce json
// @Success 201 {object} models.Complaint
// @Failure 409 {object} map[string]any
// @Router /api/leads/{id}/promote [post]
func (h *Handler) LeadPromote(c *gin.Context) {
	var req promoteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	complaint, err := h.Leads.Promote(c.Request.Context(), c.Param("id"), service.PromoteInput{
		Category:   req.AssignTo,
		ProviderID: req.ProviderID,
		Status:     req.Status,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}
