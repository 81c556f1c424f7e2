package main

import (
	"context"
	"log"

	"portal-assistant-be/internal/bootstrap"
	"portal-assistant-be/internal/config"
	"portal-assistant-be/pkg/database"
)

// One-shot knowledge-base sync. Embeds new and changed tutorial sections,
// removes stale ones, and leaves the running servers to pick up the change
// through the published event.
func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Run Sync
	log.Println("Starting knowledge-base sync...")
	result, err := container.KnowledgeService.Sync(context.Background())
	if err != nil {
		log.Fatalf("Error: knowledge sync failed: %v", err)
	}

	log.Printf("Sync complete: %d added, %d updated, %d deleted, %d unchanged (%d indexed)",
		result.Added, result.Updated, result.Deleted, result.Unchanged, result.Indexed)
}
