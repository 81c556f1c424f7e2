package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Engine   EngineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	EmbedTopic         string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
	GeminiApiKey      string
	OllamaBaseURL     string
	LLMProvider       string // "ollama" or "openai"
	LLMBaseURL        string
	LLMApiKey         string
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

// EngineConfig holds the routing engine tuning knobs.
type EngineConfig struct {
	ConfidenceThreshold float64 // below this the router forces fallback
	FastPathDistance    float64 // matches closer than this skip disambiguation
	SearchTopK          int
	MaxSuggestions      int
	MaxIndexTopics      int // topics fed to the suggestion prompt
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			EmbedTopic:         getEnv("EMBED_TOPIC", "section.embed"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMApiKey:         getEnv("LLM_API_KEY", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Engine: EngineConfig{
			ConfidenceThreshold: getEnvAsFloat("ENGINE_CONFIDENCE_THRESHOLD", 0.4),
			FastPathDistance:    getEnvAsFloat("ENGINE_FAST_PATH_DISTANCE", 0.15),
			SearchTopK:          getEnvAsInt("ENGINE_SEARCH_TOP_K", 5),
			MaxSuggestions:      getEnvAsInt("ENGINE_MAX_SUGGESTIONS", 4),
			MaxIndexTopics:      getEnvAsInt("ENGINE_MAX_INDEX_TOPICS", 15),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
