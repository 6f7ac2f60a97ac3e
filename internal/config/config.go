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
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
	SessionBackend     string // "memory" or "redis"
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	RouterModel       string // optional per-role overrides, empty uses LLMModel
	RerankerModel     string
	AnswererModel     string
	WriterModel       string
}

type RagConfig struct {
	GateThreshold     float64 // cosine distance cutoff for the evidence gate
	MaxInterviewTurns int
	PoolSize          int // candidates retrieved per query
	RerankTopN        int
	EvidenceCharCap   int // per-excerpt character cap in answer prompts
	DraftHistoryCap   int // turns of history visible to the drafting flow
	HistoryLimit      int // turns of history visible to the answerer
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
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionBackend:     getEnv("SESSION_BACKEND", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			RouterModel:       getEnv("LLM_ROUTER_MODEL", ""),
			RerankerModel:     getEnv("LLM_RERANKER_MODEL", ""),
			AnswererModel:     getEnv("LLM_ANSWERER_MODEL", ""),
			WriterModel:       getEnv("LLM_WRITER_MODEL", ""),
		},
		Rag: RagConfig{
			GateThreshold:     getEnvAsFloat("RAG_GATE_THRESHOLD", 0.45),
			MaxInterviewTurns: getEnvAsInt("RAG_MAX_INTERVIEW_TURNS", 2),
			PoolSize:          getEnvAsInt("RAG_POOL_SIZE", 25),
			RerankTopN:        getEnvAsInt("RAG_RERANK_TOP_N", 5),
			EvidenceCharCap:   getEnvAsInt("RAG_EVIDENCE_CHAR_CAP", 1400),
			DraftHistoryCap:   getEnvAsInt("RAG_DRAFT_HISTORY_CAP", 14),
			HistoryLimit:      getEnvAsInt("RAG_HISTORY_LIMIT", 20),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
