package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growfix/backend/internal/models"
)

type createShopRequest struct {
	ShopType string  `json:"shop_type" validate:"required,oneof=franchise othershop"`
	Name     string  `json:"shopname" validate:"required"`
	Owner    string  `json:"owner" validate:"required"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	GSTPin   *string `json:"gst_pin"`
	Address  string  `json:"address"`
	Area     string  `json:"area" validate:"required"`
	Pincode  string  `json:"pincode" validate:"required"`
}

// @Summary Register a repair shop
// @Tags providers
// @Accept json
// @Produce json
// @Success 201 {object} models.Shop
// @Failure 400 {object} map[string]any
// @Router /api/shops [post]
func (h *Handler) CreateShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	sh := &models.Shop{
		ID:       uuid.NewString(),
		ShopType: req.ShopType,
		Name:     req.Name,
		Owner:    req.Owner,
		Phone:    req.Phone,
		Email:    req.Email,
		GSTPin:   req.GSTPin,
		Address:  req.Address,
		Area:     req.Area,
		Pincode:  req.Pincode,
		Active:   true,
	}

	// Geocode up front so the first complaint search does not pay for it.
	// A miss is fine; the coordinate is backfilled lazily on first use.
	if lat, lon, err := h.Assigner.ResolveComplaintCoordinate(c.Request.Context(), req.Area, req.Pincode); err == nil {
		sh.SetCoordinate(lat, lon)
	} else {
		h.Logger.Warn().Err(err).Str("pincode", req.Pincode).Msg("shop geocode deferred")
	}

	if err := h.Store.CreateShop(c.Request.Context(), sh); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create shop", err.Error())
		return
	}
	c.JSON(http.StatusCreated, sh)
}

func (h *Handler) ShopsList(c *gin.Context) {
	shopType := c.Query("shop_type")
	activeOnly := c.Query("active") == "true"
	shops, err := h.Store.ListShops(c.Request.Context(), shopType, activeOnly)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list shops", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

func (h *Handler) ShopDetails(c *gin.Context) {
	sh, err := h.Store.GetShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

type createGrowtagRequest struct {
	GrowID  string  `json:"grow_id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone"`
	Email   string  `json:"email" validate:"required,email"`
	Aadhaar *string `json:"adhar"`
	Address string  `json:"address"`
	Area    string  `json:"area" validate:"required"`
	Pincode string  `json:"pincode" validate:"required"`
}

// @Summary Register a field technician
// @Tags providers
// @Accept json
// @Produce json
// @Success 201 {object} models.Growtag
// @Failure 400 {object} map[string]any
// @Router /api/growtags [post]
func (h *Handler) CreateGrowtag(c *gin.Context) {
	var req createGrowtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	g := &models.Growtag{
		ID:      uuid.NewString(),
		GrowID:  req.GrowID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Aadhaar: req.Aadhaar,
		Address: req.Address,
		Area:    req.Area,
		Pincode: req.Pincode,
		Status:  models.GrowtagActive,
	}

	if lat, lon, err := h.Assigner.ResolveComplaintCoordinate(c.Request.Context(), req.Area, req.Pincode); err == nil {
		g.SetCoordinate(lat, lon)
	} else {
		h.Logger.Warn().Err(err).Str("pincode", req.Pincode).Msg("growtag geocode deferred")
	}

	if err := h.Store.CreateGrowtag(c.Request.Context(), g); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create growtag", err.Error())
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) GrowtagsList(c *gin.Context) {
	tags, err := h.Store.ListGrowtags(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list growtags", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"growtags": tags})
}

func (h *Handler) GrowtagDetails(c *gin.Context) {
	g, err := h.Store.GetGrowtag(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type growtagStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
}

func (h *Handler) SetGrowtagStatus(c *gin.Context) {
	var req growtagStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if err := h.Store.SetGrowtagStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update growtag", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
