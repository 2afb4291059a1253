package router

import (
	"time"

	"travelkang/config"
	"travelkang/internal/handler"
	"travelkang/internal/middleware"
	"travelkang/internal/repository"
	"travelkang/internal/service"
	"travelkang/pkg/assistant"
	"travelkang/pkg/cloudinary"
	"travelkang/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	guideRepo := repository.NewGuideRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// External clients
	payClient := payment.NewClient(cfg.Payment.APIBaseURL, cfg.Payment.SecretKey)
	aiClient := assistant.NewClient(cfg.Assistant.APIKey, cfg.Assistant.BaseURL, cfg.Assistant.Model, cfg.Assistant.Referer, cfg.Assistant.Title)

	// Services
	creditSvc := service.NewCreditService(creditRepo, cfg.Credits)
	affiliateSvc := service.NewAffiliateService(affiliateRepo, userRepo)
	authSvc := service.NewAuthService(cfg, userRepo, creditSvc, affiliateSvc)
	entitlementSvc := service.NewEntitlementResolver(orderRepo)
	checkoutSvc := service.NewCheckoutService(orderRepo, payClient, cfg.Payment)
	reconcileEngine := service.NewReconcileEngine(orderRepo, creditSvc, affiliateSvc)
	stateStore := service.NewOAuthStateStore(rdb, cfg.OAuth.StateTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, stateStore, auditRepo)
	meHandler := handler.NewMeHandler(userRepo, orderRepo, creditSvc, entitlementSvc)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(&cfg.Payment, reconcileEngine, auditRepo)
	chatHandler := handler.NewChatHandler(entitlementSvc, aiClient)
	guideHandler := handler.NewGuideHandler(guideRepo, entitlementSvc, cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optAuthMw := middleware.AuthOptional(&cfg.JWT)
	adminMw := middleware.RequireAdmin(&cfg.Admin)
	chatLimiter := middleware.RateLimitByUser(middleware.NewInMemoryRateLimiter(20, 60*time.Second))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", meHandler.Profile)
			me.GET("/orders", meHandler.Orders)
		}
		api.GET("/my-entitlements", authMw, meHandler.Entitlements)

		api.GET("/products", checkoutHandler.Products)
		api.POST("/checkout", authMw, checkoutHandler.Create)

		api.GET("/chat/access", optAuthMw, chatHandler.Access)
		api.POST("/chat", authMw, chatLimiter, chatHandler.Chat)

		api.GET("/guides", guideHandler.List)
		api.POST("/guides/download", optAuthMw, guideHandler.Download)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.POST("/guides", guideHandler.Upload)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	r.GET("/ws/chat", handler.UpgradeAssistantWS(&cfg.JWT, entitlementSvc, aiClient))

	return r
}
