// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dr-Xcristy/GeneVault/internal/config"
	"github.com/Dr-Xcristy/GeneVault/internal/handlers"
	"github.com/Dr-Xcristy/GeneVault/internal/middleware"
	"github.com/Dr-Xcristy/GeneVault/internal/payments"
	"github.com/Dr-Xcristy/GeneVault/internal/registry"
	"github.com/Dr-Xcristy/GeneVault/internal/services"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	eventService := services.NewEventService(db)
	notificationService := services.NewNotificationService(db)
	storageService, _ := services.NewStorageService(cfg)

	ledger := payments.NewLedger()
	sink := registry.MultiSink{&registry.LogSink{}, eventService}
	reg := registry.New(cfg.AdminID(), ledger, sink, cfg.Registry.MetadataBaseURI)

	// Resume id and sequence counters from the persisted journal so emitted
	// events never collide with rows written before a restart.
	lastSequence, lastAssetID := eventService.Checkpoint()
	reg.Restore(registry.AssetID(lastAssetID), lastSequence)

	authService := services.NewAuthService(db, cfg)
	assetService := services.NewAssetService(reg)
	licenseService := services.NewLicenseService(reg, notificationService)
	paymentService := services.NewPaymentService(db, ledger, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	assetHandler := handlers.NewAssetHandler(assetService, storageService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	eventHandler := handlers.NewEventHandler(eventService, notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Asset routes
		assets := v1.Group("/assets")
		{
			assets.GET("/last-id", assetHandler.GetLastID)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)
			assets.GET("/:id/owner", assetHandler.GetOwner)
			assets.GET("/:id/events", eventHandler.ListAssetEvents)
			assets.GET("/:id/listing", middleware.OptionalAuth(), licenseHandler.GetListing)
			assets.GET("/:id/license/:licensee", middleware.OptionalAuth(), licenseHandler.GetLicense)
			assets.GET("/:id/royalties/:licensee", licenseHandler.GetTotalRoyalties)
			assets.GET("/metadata/:hash", assetHandler.DownloadMetadataDocument)

			// Authenticated routes
			protected := assets.Group("")
			protected.Use(middleware.AuthRequired(), middleware.MutationRateLimit())
			{
				protected.POST("", middleware.AdminRequired(), assetHandler.MintAsset)
				protected.POST("/:id/transfer", assetHandler.TransferAsset)
				protected.POST("/:id/freeze", assetHandler.FreezeMetadata)
				protected.POST("/:id/listing", licenseHandler.CreateListing)
				protected.DELETE("/:id/listing", licenseHandler.RemoveListing)
				protected.POST("/:id/license", licenseHandler.ExecuteLicense)
				protected.POST("/:id/royalties", licenseHandler.PayRoyalty)
				protected.DELETE("/:id/license/:licensee", licenseHandler.RevokeLicense)
				protected.POST("/metadata", middleware.UploadRateLimit(), assetHandler.UploadMetadataDocument)
			}
		}

		// Payment routes
		payRoutes := v1.Group("/payments")
		payRoutes.Use(middleware.AuthRequired())
		{
			payRoutes.POST("/deposit", paymentHandler.CreateDeposit)
			payRoutes.POST("/confirm", paymentHandler.ConfirmDeposit)
			payRoutes.POST("/payout", paymentHandler.RequestPayout)
			payRoutes.POST("/refund", middleware.AdminRequired(), paymentHandler.ProcessRefund)
			payRoutes.GET("/balance", paymentHandler.GetBalance)
			payRoutes.GET("/history", paymentHandler.GetPaymentHistory)
		}

		// Event journal routes
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
		}

		// Notification routes
		v1.GET("/notifications", middleware.AuthRequired(), eventHandler.ListNotifications)
	}

	return r
}
