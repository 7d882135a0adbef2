package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growfix/backend/internal/db"
	"github.com/growfix/backend/internal/models"
)

type expenseCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) ExpenseCategoryCreate(c *gin.Context) {
	var req expenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	cat := &models.ExpenseCategory{ID: uuid.NewString(), Name: req.Name, Active: true}
	if err := h.Store.CreateExpenseCategory(c.Request.Context(), cat); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create category", err.Error())
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// ExpenseMeta feeds the expense form: active categories plus the fixed
// payment method and status vocabularies.
func (h *Handler) ExpenseMeta(c *gin.Context) {
	categories, err := h.Store.ListExpenseCategories(c.Request.Context(), true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list categories", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories":      categories,
		"payment_methods": []string{"Cash", "UPI", "Card", "Bank Transfer"},
		"statuses":        []string{models.ExpensePending, models.ExpenseApproved, models.ExpenseRejected},
	})
}

type expenseRequest struct {
	Title         string  `json:"title" validate:"required"`
	Merchant      string  `json:"merchant"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"required"`
	CategoryID    string  `json:"category_id" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

func (h *Handler) ExpenseCreate(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}

	e := &models.Expense{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Merchant:      req.Merchant,
		Amount:        req.Amount,
		Date:          date,
		CategoryID:    req.CategoryID,
		PaymentMethod: req.PaymentMethod,
		Status:        models.ExpensePending,
	}
	if err := h.Store.CreateExpense(c.Request.Context(), e); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create expense", err.Error())
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) ExpenseUpdate(c *gin.Context) {
	e, err := h.Store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if e.Status != models.ExpensePending {
		writeError(c, http.StatusConflict, "INVALID_STATE", "Only pending expenses can be edited", nil)
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}

	e.Title = req.Title
	e.Merchant = req.Merchant
	e.Amount = req.Amount
	e.Date = date
	e.CategoryID = req.CategoryID
	e.PaymentMethod = req.PaymentMethod
	if err := h.Store.UpdateExpense(c.Request.Context(), e); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update expense", err.Error())
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) ExpenseDetails(c *gin.Context) {
	e, err := h.Store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) ExpensesList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	expenses, err := h.Store.ListExpenses(c.Request.Context(), db.ExpenseFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list expenses", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *Handler) ExpenseApprove(c *gin.Context) {
	h.setExpenseStatus(c, models.ExpenseApproved)
}

func (h *Handler) ExpenseReject(c *gin.Context) {
	h.setExpenseStatus(c, models.ExpenseRejected)
}

func (h *Handler) setExpenseStatus(c *gin.Context, status string) {
	e, err := h.Store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if e.Status != models.ExpensePending {
		writeError(c, http.StatusConflict, "INVALID_STATE", "Expense already reviewed", nil)
		return
	}
	if err := h.Store.SetExpenseStatus(c.Request.Context(), e.ID, status); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update expense", err.Error())
		return
	}
	e.Status = status
	c.JSON(http.StatusOK, e)
}

func (h *Handler) ExpenseDelete(c *gin.Context) {
	if err := h.Store.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete expense", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
