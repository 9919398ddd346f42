package main

import (
	"log"

	"umrahstay/internal/config"
	"umrahstay/internal/database"
	"umrahstay/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := schema.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	log.Printf("migration completed: dialect=%s", database.Dialect(db))
}
