package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SURREALDB_URL", "SQLWISE_LLM_PROVIDER", "SQLWISE_EMBEDDING_MODEL", "SQLWISE_LLM_TIMEOUT_SEC", "SQLWISE_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
	assert.Equal(t, "all-minilm:l6-v2", cfg.EmbeddingModel)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SQLWISE_LLM_PROVIDER", "OpenAI")
	t.Setenv("SQLWISE_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("SQLWISE_SQL_TIMEOUT_SEC", "15")
	t.Setenv("SQLWISE_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider, "provider is case-insensitive")
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, 15*time.Second, cfg.SQLTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("SQLWISE_SQL_TIMEOUT_SEC", "soon")
	cfg := Load()
	assert.Equal(t, 60*time.Second, cfg.SQLTimeout)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestDualOutputLogging(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("query answered", "rows", 3)
	logger.Debug("should be filtered")

	assert.Contains(t, stderr.String(), "query answered")
	assert.NotContains(t, stderr.String(), "should be filtered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &entry))
	assert.Equal(t, "query answered", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}
