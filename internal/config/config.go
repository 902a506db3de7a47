package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies the chat model backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogleAI  Provider = "googleai"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection (table vector index)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Chat model
	LLMProvider     Provider
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAIAPIKey  string

	// Ollama embedding
	OllamaHost     string
	EmbeddingModel string

	// Default datasource credentials, used when connection params omit them
	MySQLUser     string
	MySQLPassword string

	// Domain rules (optional YAML file, see internal/rules)
	DomainRulesFile string

	// Per-call timeouts; external calls are the dominant failure source,
	// a timeout surfaces as a retryable failure within the retry budgets.
	LLMTimeout  time.Duration
	SQLTimeout  time.Duration
	ScanTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "sqlwise"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "tables"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(strings.ToLower(getEnv("SQLWISE_LLM_PROVIDER", "ollama"))),
		LLMModel:        getEnv("SQLWISE_LLM_MODEL", "qwen2.5-coder:14b"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAIAPIKey:  os.Getenv("GOOGLE_API_KEY"),

		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		EmbeddingModel: getEnv("SQLWISE_EMBEDDING_MODEL", "all-minilm:l6-v2"),

		MySQLUser:     os.Getenv("MYSQL_USER"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),

		DomainRulesFile: os.Getenv("SQLWISE_DOMAIN_RULES"),

		LLMTimeout:  getDuration("SQLWISE_LLM_TIMEOUT_SEC", 120),
		SQLTimeout:  getDuration("SQLWISE_SQL_TIMEOUT_SEC", 60),
		ScanTimeout: getDuration("SQLWISE_SCAN_TIMEOUT_SEC", 3600),

		LogFile:  getEnv("SQLWISE_LOG_FILE", "/tmp/sqlmcp.log"),
		LogLevel: parseLogLevel(getEnv("SQLWISE_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultSec int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if sec, err := strconv.Atoi(val); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return time.Duration(defaultSec) * time.Second
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
