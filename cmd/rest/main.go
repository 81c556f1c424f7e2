package main

import (
	"context"
	"log"

	"portal-assistant-be/internal/bootstrap"
	"portal-assistant-be/internal/config"
	"portal-assistant-be/internal/server"
	"portal-assistant-be/internal/tracer"
	"portal-assistant-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Warm up the knowledge index so the first chat request does not
	// pay the full load cost
	if err := container.Engine.Refresh(context.Background()); err != nil {
		log.Printf("[WARN] Initial knowledge index load failed: %v", err)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Embedding Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
