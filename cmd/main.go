package main

import (
	"storefront-service/internal/handler"
	mid "storefront-service/internal/middleware"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/mailer"
	"storefront-service/pkg/validate"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env handled inside Load)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire outbound mail transport
	handler.SetMailer(mailer.NewSMTP(&appConfig.SMTP))
	log.Info("Mail transport configured", zap.String("smtp_host", appConfig.SMTP.Host))

	// Initialize Echo instance
	e := echo.New()
	e.Validator = validate.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Public auth routes
	auth := e.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/send-otp", handler.SendOTP)
	auth.POST("/verify-otp", handler.VerifyOTP)
	auth.PUT("/profile", handler.UpdateProfile, mid.AuthMiddleware)

	// Category listing
	e.GET("/api/categories", handler.ListCategories)

	// Dashboard routes - all require a valid session token
	dashboard := e.Group("/api/dashboard", mid.AuthMiddleware)
	dashboard.GET("", handler.Dashboard)
	dashboard.GET("/statistics", handler.DashboardStatistics)
	dashboard.GET("/products", handler.ListProducts)
	dashboard.POST("/products", handler.CreateProduct)
	dashboard.GET("/products/:pid", handler.GetProduct)
	dashboard.PUT("/products/:pid", handler.UpdateProduct)
	dashboard.DELETE("/products/:pid", handler.DeleteProduct)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
