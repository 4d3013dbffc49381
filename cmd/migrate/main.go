package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/dashunya17/CookingBenefits/config"
	"github.com/dashunya17/CookingBenefits/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("migration complete")
}
