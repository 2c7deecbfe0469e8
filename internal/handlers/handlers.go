package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"medreps/internal/config"
	"medreps/internal/middleware"
	"medreps/internal/models"
	"medreps/internal/service"
)

// Dependencies are the services behind the routes. DatabasePing and Cache may be nil.
type Dependencies struct {
	Auth         *service.AuthService
	Plans        *service.PlanService
	Reports      *service.ReportService
	Hospitals    *service.HospitalService
	Aggregation  *service.AggregationService
	DatabasePing func(ctx context.Context) error
	Cache        *redis.Client
}

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	auth         *service.AuthService
	plans        *service.PlanService
	reports      *service.ReportService
	hospitals    *service.HospitalService
	aggregation  *service.AggregationService
	databasePing func(ctx context.Context) error
	cache        *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	registerValidators()

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		auth:         deps.Auth,
		plans:        deps.Plans,
		reports:      deps.Reports,
		hospitals:    deps.Hospitals,
		aggregation:  deps.Aggregation,
		databasePing: deps.DatabasePing,
		cache:        deps.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		v1.POST("/auth/login", h.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(h.auth))

		protected.POST("/auth/logout", h.Logout)
		protected.GET("/auth/me", h.Me)
		protected.GET("/auth/sessions/:userCode", h.ActiveSession)
		protected.GET("/representatives", h.Representatives)

		protected.POST("/plans", h.CreatePlan)
		protected.GET("/plans", h.ListPlans)

		protected.POST("/reports", h.CreateReport)
		protected.GET("/reports", h.ListReports)

		protected.POST("/hospitals", h.CreateHospital)
		protected.GET("/hospitals", h.ListHospitals)
		protected.POST("/hospitals/:id/visits", h.LogVisit)
		protected.PUT("/hospitals/:id/products/:product", h.SetProductStatus)

		dashboard := protected.Group("/dashboard")
		dashboard.Use(middleware.RequireRoles(models.RoleManager))
		dashboard.GET("/stats", h.DashboardStats)
		dashboard.GET("/performance", h.Performance)
		dashboard.GET("/analysis", h.Analysis)
	}
}
