package routes

import (
	"log"

	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()

	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Printf("push service unavailable: %v", err)
	}

	ocr, err := services.NewOCRService()
	if err != nil {
		log.Printf("label text detection unavailable: %v", err)
	}

	off := services.NewOFFService(config.DB)
	portions := services.NewPortionService(services.NewPortionCache())
	scans := services.NewScanService(portions, off, ocr, hub)
	stats := services.NewStatsService(config.DB)

	services.InitAlertDeps(config.DB, hub, push)

	portionCtl := controllers.NewPortionController(portions)
	scanCtl := controllers.NewScanController(scans)
	productCtl := controllers.NewProductController(off)
	statsCtl := controllers.NewStatsController(stats)
	deviceCtl := controllers.NewDeviceController(push)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/portion/resolve", portionCtl.Resolve)

		api.POST("/scans", scanCtl.Create)
		api.GET("/scans", scanCtl.List)
		api.GET("/scans/:id", scanCtl.Get)
		api.DELETE("/scans/:id", scanCtl.Delete)
		api.POST("/scans/:id/confirm", scanCtl.Confirm)

		api.GET("/products/:barcode", productCtl.GetByBarcode)
		api.GET("/stats/portions", statsCtl.PortionSummary)
		api.POST("/devices/register", deviceCtl.Register)
		api.GET("/ws/scans", rtCtl.ScansWS)
	}

	return r
}
