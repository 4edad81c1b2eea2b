package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"expense_tracker/internal/account"    // Credential & reset flow
	"expense_tracker/internal/api"        // Custom package for API handlers
	"expense_tracker/internal/config"     // Custom package for configuration
	"expense_tracker/internal/export"     // CSV export service
	"expense_tracker/internal/gateway"    // External collaborator ports
	"expense_tracker/internal/ledger"     // Ledger and aggregate maintenance
	"expense_tracker/internal/middleware" // Custom package for middleware
	"expense_tracker/internal/premium"    // Entitlement and leaderboard
	"expense_tracker/internal/report"     // Time-bucketed reports

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// External collaborators behind their ports
	mailer := &gateway.HTTPMailer{
		BaseURL:     cfg.EmailBaseURL, // Transactional email API base
		APIKey:      cfg.EmailAPIKey,  // Provider API key
		SenderEmail: cfg.SenderEmail,  // From address
	}
	paymentGateway := &gateway.HTTPPaymentGateway{
		BaseURL:   cfg.PaymentBaseURL,   // Payment gateway API base
		KeyID:     cfg.PaymentKeyID,     // Key id
		KeySecret: cfg.PaymentKeySecret, // Key secret
	}
	exportStore := &gateway.DiskStore{
		Dir:     cfg.ExportDir,            // Export files land here
		BaseURL: cfg.BaseURL + "/exports", // Served by the static route below
	}

	// Domain services
	ledgers := ledger.NewService(db)                                       // Ledger store + aggregate maintainer
	reports := report.NewService(db)                                       // Report engine
	premiums := premium.NewService(db)                                     // Entitlement gate + leaderboard
	accounts := account.NewService(db, mailer, cfg.JWTSecret, cfg.BaseURL) // Credential & reset flow
	exports := export.NewService(db, exportStore)                          // CSV export + download history

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Generated export files
	r.Static("/exports", cfg.ExportDir)

	// Auth routes
	r.POST("/api/users/signup", api.SignupHandler(accounts)) // Registration endpoint
	r.POST("/api/users/login", api.LoginHandler(accounts))   // Login endpoint

	// Password reset routes (reachable without a session)
	r.POST("/api/password/forgot", api.ForgotPasswordHandler(accounts))      // Issue reset token
	r.GET("/api/password/verify/:token", api.VerifyResetHandler(accounts))   // Check token validity
	r.POST("/api/password/reset/:token", api.ResetPasswordHandler(accounts)) // Consume token

	// Ledger routes (protected by JWT)
	expenseGroup := r.Group("/api/expenses")
	expenseGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	expenseGroup.POST("", api.AddExpenseHandler(ledgers, redisClient))          // Add entry endpoint
	expenseGroup.GET("", api.ListExpensesHandler(ledgers, redisClient))         // Paginated history endpoint
	expenseGroup.DELETE("/:id", api.DeleteExpenseHandler(ledgers, redisClient)) // Delete entry endpoint

	// Premium-gated ledger routes: entitlement is re-checked in the DB per request
	gatedGroup := r.Group("/api/expenses")
	gatedGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.PremiumOnlyMiddleware(db))
	gatedGroup.GET("/report/:type", api.GetReportHandler(reports))           // Report endpoint
	gatedGroup.GET("/download", api.DownloadExpensesHandler(exports))        // CSV export endpoint
	gatedGroup.GET("/download/history", api.DownloadHistoryHandler(exports)) // Export history endpoint

	// Premium routes (protected by JWT)
	premiumGroup := r.Group("/api/premium")
	premiumGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	premiumGroup.GET("/status", api.PremiumStatusHandler(premiums, redisClient)) // Entitlement flag endpoint
	// Leaderboard additionally requires live premium entitlement
	premiumGroup.GET("/leaderboard", middleware.PremiumOnlyMiddleware(db), api.LeaderboardHandler(premiums, redisClient))

	// Payment routes (protected by JWT)
	paymentGroup := r.Group("/api/payments")
	paymentGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	paymentGroup.POST("/order", api.CreateOrderHandler(premiums, paymentGateway, cfg.PaymentKeyID)) // Create order endpoint
	paymentGroup.POST("/status", api.UpdateStatusHandler(premiums, redisClient))                    // Status callback endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
