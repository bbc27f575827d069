package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joannescode/etllm-pagbank/internal/api/handlers"
	"github.com/joannescode/etllm-pagbank/internal/api/middleware"
	"github.com/joannescode/etllm-pagbank/internal/config"
	"github.com/joannescode/etllm-pagbank/internal/services"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *middleware.APIKeyManager, error) {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.APIKeyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	apiKeyManager, err := middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	statementService := services.NewStatementService(db, cfg)

	// Periodic extraction is opt-in
	if cfg.SyncMinutes > 0 {
		scheduler := services.NewScheduler(statementService, time.Duration(cfg.SyncMinutes)*time.Minute)
		scheduler.Start()
	}

	transactionHandler := handlers.NewTransactionHandler(statementService)
	runHandler := handlers.NewRunHandler(statementService)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.Use(middleware.APIKeyMiddleware(apiKeyManager))

		api.GET("/transactions", transactionHandler.ListTransactions)
		api.GET("/runs", runHandler.ListRuns)
		api.POST("/runs", runHandler.TriggerRun)
	}

	return router, apiKeyManager, nil
}
