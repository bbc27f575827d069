package main

import (
	"log"
	"os"

	"github.com/joannescode/etllm-pagbank/internal/api"
	"github.com/joannescode/etllm-pagbank/internal/cli"
	"github.com/joannescode/etllm-pagbank/internal/config"
	"github.com/joannescode/etllm-pagbank/internal/database"
	"github.com/joannescode/etllm-pagbank/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.SetLevel(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Check if running CLI command
	if len(os.Args) > 1 {
		cli.Execute(db, cfg)
		return
	}

	// Start API server
	router, apiKeyManager, err := api.SetupRouter(db, cfg)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	log.Printf("Starting etllm-pagbank server on port %s", cfg.APIPort)
	log.Printf("Database path: %s", cfg.DatabasePath)
	log.Printf("API Key: %s", apiKeyManager.GetCurrentKey())
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
