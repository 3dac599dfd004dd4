package api

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/advisor"    // Crop advice
	"krishisaarthi/internal/domain"     // Roles
	"krishisaarthi/internal/middleware" // Auth middleware
	"krishisaarthi/internal/service"    // Business rules
	"krishisaarthi/internal/session"    // Session cookie carrier
	"krishisaarthi/internal/storage"    // Object storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	DB        *gorm.DB          // Primary store
	Redis     *redis.Client     // Optional cache, nil disables caching
	Carrier   *session.Carrier  // Session cookie carrier
	Presigner storage.Presigner // Upload URL signer
	Advisor   advisor.Client    // Crop question responder
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) *gin.Engine {
	registerTagNames()

	users := service.NewUserService(d.DB)
	soil := service.NewSoilTestService(d.DB)
	feeds := service.NewCropFeedService(d.DB, d.Advisor)
	prices := service.NewMarketService(d.DB, d.Redis)
	bidding := service.NewBiddingService(d.DB)
	dashboards := service.NewDashboardService(d.DB)

	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method, // HTTP method
			"path":   c.FullPath(),     // Route pattern
			"panic":  recovered,        // Recovered value
		}).Error("Handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	r.GET("/healthz", HealthHandler(d.DB, d.Redis))

	// Browser pages
	guest := r.Group("", middleware.RedirectIfAuthenticated(d.Carrier))
	guest.GET("/login", PageHandler("login"))
	guest.GET("/register", PageHandler("register"))

	dash := r.Group("/dashboard", middleware.DashboardGuard(d.Carrier))
	dash.GET("", DashboardHandler(dashboards))
	dash.GET("/profile", MeHandler(users))
	dash.GET("/soil-testing", ListSoilTestsHandler(soil))
	dash.GET("/market", MarketOverviewHandler(prices))
	dash.GET("/bidding", ListBiddingEntriesHandler(bidding))
	dash.GET("/crop-feeds", ListCropFeedsHandler(feeds))

	// Auth routes
	auth := r.Group("/api/auth")
	auth.POST("/register", RegisterHandler(users))
	auth.POST("/login", LoginHandler(users, d.Carrier))
	auth.POST("/logout", LogoutHandler(d.Carrier))

	// Session protected API
	api := r.Group("/api", middleware.RequireSession(d.Carrier))
	api.GET("/user/me", MeHandler(users))
	api.GET("/dashboard", DashboardHandler(dashboards))

	soilGroup := api.Group("/soil-testing")
	soilGroup.GET("", ListSoilTestsHandler(soil))
	soilGroup.POST("/request", SubmitSoilTestHandler(soil))
	soilGroup.GET("/:id", GetSoilTestHandler(soil))
	soilGroup.POST("/:id/accept", middleware.RequireRole(d.DB, "Only soil testing companies can accept requests", domain.RoleSoilTestCompany), AcceptSoilTestHandler(soil))
	soilGroup.POST("/:id/report", middleware.RequireRole(d.DB, "Only soil testing companies can submit reports", domain.RoleSoilTestCompany), SubmitSoilReportHandler(soil))

	feedGroup := api.Group("/crop-feeds")
	feedGroup.GET("", ListCropFeedsHandler(feeds))
	feedGroup.POST("", CreateCropFeedHandler(feeds))
	feedGroup.GET("/:id", GetCropFeedHandler(feeds))
	feedGroup.GET("/:id/comments", ListCommentsHandler(feeds))
	feedGroup.POST("/:id/comments", AddCommentHandler(feeds))
	feedGroup.POST("/:id/feedback", FeedbackHandler(feeds))

	marketGroup := api.Group("/market")
	marketGroup.GET("/prices", ListPricesHandler(prices))
	marketGroup.POST("/prices", middleware.RequireRole(d.DB, "Only market agents can add prices", domain.RoleMarketAgent), CreatePriceHandler(prices))
	marketGroup.GET("/prices/export", ExportPricesHandler(prices))
	marketGroup.GET("/overview", MarketOverviewHandler(prices))

	farmerOnly := middleware.RequireRole(d.DB, "Only farmers can manage bidding entries", domain.RoleFarmer)
	biddingGroup := api.Group("/bidding")
	biddingGroup.GET("", ListBiddingEntriesHandler(bidding))
	biddingGroup.POST("", farmerOnly, CreateBiddingEntryHandler(bidding))
	biddingGroup.POST("/:id/close", farmerOnly, CloseBiddingHandler(bidding))
	biddingGroup.POST("/:id/bids", middleware.RequireRole(d.DB, "Only buyers can place bids", domain.RoleBuyer), PlaceBidHandler(bidding))

	api.POST("/upload/presigned", PresignUploadHandler(d.Presigner))

	return r
}
