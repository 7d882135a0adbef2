package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/growfix/backend/internal/config"
	"github.com/growfix/backend/internal/db"
	"github.com/growfix/backend/internal/http/handlers"
	"github.com/growfix/backend/internal/http/middleware"
	"github.com/growfix/backend/internal/service"

	_ "github.com/growfix/backend/docs"
)

func Router(cfg config.Config, store *db.Store, complaints *service.ComplaintService, leads *service.LeadService, assigner *service.AssignmentService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:      store,
		Complaints: complaints,
		Leads:      leads,
		Assigner:   assigner,
		Validator:  validator.New(),
		Logger:     logger,
		AdminKey:   cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/complaints", h.ComplaintCreate)
		api.GET("/complaints/nearest-options", h.NearestOptions)
		api.GET("/complaints/:id", h.ComplaintDetails)
		api.POST("/complaints/:id/confirm", h.ComplaintConfirm)

		api.POST("/customers/register", h.CustomerRegister)

		api.POST("/leads/webhook", h.LeadWebhook)
		api.GET("/leads/prefill", h.LeadPrefill)

		api.GET("/shops", h.ShopsList)
		api.GET("/growtags", h.GrowtagsList)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.GET("/complaints", h.ComplaintsList)
		admin.PATCH("/complaints/:id", h.ComplaintUpdate)

		admin.GET("/customers", h.CustomersList)
		admin.GET("/customers/:id", h.CustomerDetails)

		admin.POST("/shops", h.CreateShop)
		admin.GET("/shops/:id", h.ShopDetails)
		admin.POST("/growtags", h.CreateGrowtag)
		admin.GET("/growtags/:id", h.GrowtagDetails)
		admin.PATCH("/growtags/:id/status", h.SetGrowtagStatus)

		admin.GET("/leads", h.LeadsList)
		admin.POST("/leads/:id/promote", h.LeadPromote)

		admin.GET("/expenses/meta", h.ExpenseMeta)
		admin.POST("/expenses/categories", h.ExpenseCategoryCreate)
		admin.POST("/expenses", h.ExpenseCreate)
		admin.GET("/expenses", h.ExpensesList)
		admin.GET("/expenses/:id", h.ExpenseDetails)
		admin.PUT("/expenses/:id", h.ExpenseUpdate)
		admin.POST("/expenses/:id/approve", h.ExpenseApprove)
		admin.POST("/expenses/:id/reject", h.ExpenseReject)
		admin.DELETE("/expenses/:id", h.ExpenseDelete)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
