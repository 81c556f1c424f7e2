package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"portal-assistant-be/internal/repository/unitofwork"
	"portal-assistant-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.TutorialRepository())
	assert.NotNil(t, uow.SectionEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Tutorial Repository", func(t *testing.T) {
		tutorials, err := uow.TutorialRepository().FindAll(context.Background())
		assert.NoError(t, err)
		t.Logf("Tutorial count: %d", len(tutorials))
	})

	t.Run("Check Section Embedding Repository", func(t *testing.T) {
		hashes, err := uow.SectionEmbeddingRepository().ContentHashes(context.Background())
		assert.NoError(t, err)
		t.Logf("SectionEmbedding count: %d", len(hashes))
	})

	t.Run("Check Chat Session Repository", func(t *testing.T) {
		sessions, err := uow.ChatSessionRepository().FindAll(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatSession count: %d", len(sessions))
	})
}
