package main

import (
	"log"

	"github.com/joho/godotenv"

	"forge/internal/cli"
	"forge/internal/config"
	"forge/internal/logger"
)

func main() {
	// API keys may live in a .env file; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Fatal Error: Could not load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogFile); err != nil {
		log.Fatalf("Fatal Error: Could not initialize logger: %v", err)
	}

	cli.Execute()
}
