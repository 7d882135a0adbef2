package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/growfix/backend/internal/service"
)

type registerRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Address       string `json:"address"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Area          string `json:"area"`
}

// @Summary Register a customer account
// @Description Creates an account, or links to the existing one when name and password match
// @Tags customers
// @Accept json
// @Produce json
// @Success 201 {object} models.Customer
// @Failure 409 {object} map[string]any
// @Router /api/customers/register [post]
func (h *Handler) CustomerRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	match, err := h.Store.FindCustomerByPhoneOrEmail(c.Request.Context(), req.CustomerPhone, req.Email)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Lookup failed", err.Error())
		return
	}

	res := service.Reconcile(nil, match, service.ContactFields{
		Name:       req.CustomerName,
		Phone:      req.CustomerPhone,
		Email:      req.Email,
		Credential: req.Password,
		Address:    req.Address,
		State:      req.State,
		Pincode:    req.Pincode,
		Area:       req.Area,
	}, nil)

	switch res.Outcome {
	case service.OutcomeConflict:
		writeError(c, http.StatusConflict, "IDENTITY_CONFLICT", "Submission conflicts with an existing account", res.Conflicts)
	case service.OutcomeCreated:
		if err := h.Store.CreateCustomer(c.Request.Context(), res.Customer); err != nil {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create customer", err.Error())
			return
		}
		c.JSON(http.StatusCreated, res.Customer)
	default:
		if err := h.Store.UpdateCustomer(c.Request.Context(), res.Customer); err != nil {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update customer", err.Error())
			return
		}
		c.JSON(http.StatusOK, res.Customer)
	}
}

func (h *Handler) CustomerDetails(c *gin.Context) {
	cust, err := h.Store.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) CustomersList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	customers, err := h.Store.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list customers", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}
