package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	SessionStore  string // "memory" or "redis"
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider          string // "ollama" or "huggingface"
	LLMModel             string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL        string
	HFApiKey             string
	HFBaseURL            string
	EmbeddingProvider    string
	OllamaEmbeddingModel string
	RagTopK              int
	RagThreshold         float64
}

type SearchConfig struct {
	BaseURL    string
	MaxResults int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "default_secret"),
			TokenTTLHours: getEnvAsInt("TOKEN_TTL_HOURS", 24),
			SessionStore:  getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HFApiKey:             getEnv("HF_API_KEY", ""),
			HFBaseURL:            getEnv("HF_BASE_URL", ""),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RagTopK:              getEnvAsInt("RAG_TOP_K", 10),
			RagThreshold:         getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.35),
		},
		Search: SearchConfig{
			BaseURL:    getEnv("WEB_SEARCH_BASE_URL", "https://api.duckduckgo.com"),
			MaxResults: getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 5),
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
