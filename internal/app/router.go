package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jalsetu.io/jalsetu/internal/api/handlers"
	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/config"
	"jalsetu.io/jalsetu/internal/domain"
)

// NewRouter assembles the gin engine: recovery, request IDs, CORS, the
// centralized error handler, then the authenticated route groups with
// per-group role gates.
func NewRouter(cfg *config.Config, server *handlers.Server, jwtCfg middleware.JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	v1 := router.Group("/api/v1")

	// Public surface.
	v1.POST("/auth/register", server.Register)
	v1.POST("/auth/login", server.Login)
	v1.GET("/health/live", server.GetLiveness)
	v1.GET("/health/ready", server.GetReadiness)

	// Everything below requires a valid bearer token.
	auth := v1.Group("", middleware.JWTAuth(jwtCfg.SigningKey))

	auth.GET("/auth/me", server.Me)

	auth.GET("/profile", server.GetMyProfile)
	auth.PUT("/profile", server.UpdateMyProfile)

	officials := middleware.RequireRoles(domain.RoleTalati, domain.RoleEngineer, domain.RoleKarkoon)
	auth.GET("/profiles/:userID", officials, server.GetProfileByUser)

	auth.POST("/farms", server.CreateFarm)
	auth.GET("/farms", server.ListMyFarms)
	auth.PUT("/farms/:id", server.UpdateFarm)
	auth.DELETE("/farms/:id", server.DeleteFarm)

	// Location hierarchy: everyone reads, only admin writes.
	locations := auth.Group("/locations")
	locations.GET("/states", server.ListStates)
	locations.GET("/districts", server.ListDistricts)
	locations.GET("/subdistricts", server.ListSubDistricts)
	locations.GET("/villages", server.ListVillages)
	locations.GET("/canals", server.ListCanals)

	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	locations.POST("/states", adminOnly, server.CreateState)
	locations.POST("/districts", adminOnly, server.CreateDistrict)
	locations.POST("/subdistricts", adminOnly, server.CreateSubDistrict)
	locations.POST("/villages", adminOnly, server.CreateVillage)
	locations.POST("/canals", adminOnly, server.CreateCanal)

	// Application documents.
	apps := auth.Group("/applications")
	apps.POST("/:type", server.SubmitApplication)
	apps.GET("/:type/mine", server.ListMyApplications)
	apps.GET("/:type", officials, server.ListApplications)
	apps.GET("/:type/number/:number", server.GetApplicationByNumber)
	talati := middleware.RequireRoles(domain.RoleTalati)
	apps.POST("/:type/:id/approve", talati, server.ApproveApplication)
	apps.POST("/:type/:id/deny", talati, server.DenyApplication)

	// Form-12 rate assessments.
	assessments := auth.Group("/assessments")
	assessments.GET("/mine", server.ListMyAssessments)
	assessments.GET("/summary", server.GetMyRateSummary)
	assessments.GET("/summary/:userID", officials, server.GetRateSummaryByUser)
	maintainers := middleware.RequireRoles(domain.RoleKarkoon, domain.RoleEngineer)
	assessments.GET("", maintainers, server.ListAssessments)
	assessments.PUT("/water-request/:waterRequestID", maintainers, server.UpsertAssessment)
	engineer := middleware.RequireRoles(domain.RoleEngineer)
	assessments.POST("/:id/approve", engineer, server.ApproveAssessment)
	assessments.POST("/:id/deny", engineer, server.DenyAssessment)
	assessments.PUT("/:id/supply-date", engineer, server.UpdateSupplyDate)

	// Payments.
	payments := auth.Group("/payments")
	payments.POST("", server.RecordPayment)
	payments.POST("/verify", server.VerifyPayment)
	payments.GET("/mine", server.ListMyPayments)
	payments.GET("/assessment/:number", officials, server.ListPaymentsByAssessment)

	// Dashboards.
	auth.GET("/dashboard/me", server.GetMyDashboard)
	auth.GET("/dashboard/admin", officials, server.GetAdminDashboard)

	return router
}
