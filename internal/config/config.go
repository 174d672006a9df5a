package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Workflow WorkflowConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	DocumentDir        string
	RendererURL        string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI string
	Tavily string
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMModel      string // e.g. "gpt-4o", "llama3"
	OllamaBaseURL string
}

// WorkflowConfig carries the tunable search-trigger parameters. The
// thresholds and keyword lists are best-effort relevance heuristics, not
// correctness rules, so they live here rather than in control flow.
type WorkflowConfig struct {
	ProactiveSearchCap     int      // per phase per session
	IdeationMinExchanges   int      // user turns before proactive research kicks in
	ExplicitSearchKeywords []string // user text containing one triggers a search
	CompetitorKeywords     []string // phase-1 proactive trigger
	SuggestionKeywords     []string // phase-2 proactive trigger
	SectionTopicName       string   // pub/sub topic for background section generation
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			DocumentDir:        getEnv("DOCUMENT_DIR", "documents"),
			RendererURL:        getEnv("RENDERER_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Tavily: getEnv("TAVILY_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Workflow: WorkflowConfig{
			ProactiveSearchCap:     getEnvAsInt("PROACTIVE_SEARCH_CAP", 2),
			IdeationMinExchanges:   getEnvAsInt("IDEATION_MIN_EXCHANGES", 3),
			ExplicitSearchKeywords: getEnvAsList("EXPLICIT_SEARCH_KEYWORDS", "research,search"),
			CompetitorKeywords:     getEnvAsList("COMPETITOR_KEYWORDS", "competitor,alternatives,similar apps,market"),
			SuggestionKeywords:     getEnvAsList("SUGGESTION_KEYWORDS", "suggest,recommend,what features,ideas"),
			SectionTopicName:       getEnv("SECTION_PREGEN_TOPIC_NAME", "PREGENERATE_SECTION"),
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

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
