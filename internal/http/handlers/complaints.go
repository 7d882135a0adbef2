package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/growfix/backend/internal/db"
	"github.com/growfix/backend/internal/service"
)

type complaintRequest struct {
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Password      string   `json:"password"`
	Address       string   `json:"address"`
	State         string   `json:"state"`
	Pincode       string   `json:"pincode"`
	Area          string   `json:"area"`
	PhoneModel    string   `json:"phone_model"`
	IssueDetails  string   `json:"issue_details"`
	AssignTo      string   `json:"assign_to"`
	Status        string   `json:"status"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (r complaintRequest) toInput(present map[string]bool) service.ComplaintInput {
	return service.ComplaintInput{
		ContactFields: service.ContactFields{
			Name:       r.CustomerName,
			Phone:      r.CustomerPhone,
			Email:      r.Email,
			Credential: r.Password,
			Address:    r.Address,
			State:      r.State,
			Pincode:    r.Pincode,
			Area:       r.Area,
		},
		PhoneModel:   r.PhoneModel,
		IssueDetails: r.IssueDetails,
		Category:     r.AssignTo,
		Status:       r.Status,
		Lat:          r.Latitude,
		Lon:          r.Longitude,
		Present:      present,
	}
}

// presentFields records which keys the client actually sent, so a partial
// update does not wipe fields the payload omitted.
func presentFields(raw []byte) map[string]bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	present := make(map[string]bool, len(m))
	for k := range m {
		present[k] = true
	}
	return present
}

// @Summary Register a repair complaint
// @Description Reconciles the submitted identity to a customer account and assigns the nearest eligible provider
// @Tags complaints
// @Accept json
// @Produce json
// @Success 201 {object} models.Complaint
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/complaints [post]
func (h *Handler) ComplaintCreate(c *gin.Context) {
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if req.CustomerName == "" || req.CustomerPhone == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_name and customer_phone are required", nil)
		return
	}

	complaint, err := h.Complaints.Create(c.Request.Context(), req.toInput(nil))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) ComplaintUpdate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	var req complaintRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	complaint, err := h.Complaints.Update(c.Request.Context(), c.Param("id"), req.toInput(presentFields(raw)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) ComplaintDetails(c *gin.Context) {
	complaint, err := h.Store.GetComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) ComplaintsList(c *gin.Context) {
	filter := db.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("assign_to"),
		Phone:    c.Query("customer_phone"),
	}
	complaints, err := h.Store.ListComplaints(c.Request.Context(), filter)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list complaints", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// @Summary Ranked provider options for a location
// @Tags complaints
// @Produce json
// @Param area query string false "locality name"
// @Param pincode query string false "postal code"
// @Success 200 {object} service.NearestOptions
// @Router /api/complaints/nearest-options [get]
func (h *Handler) NearestOptions(c *gin.Context) {
	area := c.Query("area")
	pincode := c.Query("pincode")
	if area == "" && pincode == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "area or pincode is required", nil)
		return
	}

	options, err := h.Complaints.NearestProviders(c.Request.Context(), area, pincode)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, "GEOCODE_FAILED", "Location could not be resolved", err.Error())
		return
	}
	c.JSON(http.StatusOK, options)
}

type confirmRequest struct {
	ConfirmedBy string `json:"confirmed_by"`
}

func (h *Handler) ComplaintConfirm(c *gin.Context) {
	var req confirmRequest
	_ = c.ShouldBindJSON(&req)

	complaint, err := h.Complaints.Confirm(c.Request.Context(), c.Param("id"), req.ConfirmedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}
