package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	SessionServiceURL  string
	PropertyServiceURL string

	OpenAIToken   string
	OpenAIBaseURL string
	LLMModel      string
	MaxTokens     int
	Temperature   float64

	HistoryLimit  int
	SearchLimit   int
	ClientTimeout time.Duration

	// KnowledgeBase holds the static background entries injected into every
	// assembled context. Immutable after Load.
	KnowledgeBase []string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8090"),
		SessionServiceURL:  os.Getenv("SESSION_SERVICE_URL"),
		PropertyServiceURL: os.Getenv("PROPERTY_SERVICE_URL"),
		OpenAIToken:        os.Getenv("OPENAI_TOKEN"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		KnowledgeBase:      defaultKnowledgeBase,
	}

	if cfg.SessionServiceURL == "" {
		return nil, fmt.Errorf("SESSION_SERVICE_URL is required")
	}
	if cfg.PropertyServiceURL == "" {
		return nil, fmt.Errorf("PROPERTY_SERVICE_URL is required")
	}
	if cfg.OpenAIToken == "" {
		return nil, fmt.Errorf("OPENAI_TOKEN is required")
	}

	var err error
	if cfg.HistoryLimit, err = getEnvInt("HISTORY_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.SearchLimit, err = getEnvInt("SEARCH_LIMIT", 3); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = getEnvInt("LLM_MAX_TOKENS", 1024); err != nil {
		return nil, err
	}

	timeoutSeconds, err := getEnvInt("CLIENT_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.ClientTimeout = time.Duration(timeoutSeconds) * time.Second

	if raw := os.Getenv("LLM_TEMPERATURE"); raw != "" {
		cfg.Temperature, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("LLM_TEMPERATURE must be a number: %w", err)
		}
	}

	if path := os.Getenv("KNOWLEDGE_BASE_FILE"); path != "" {
		entries, err := loadKnowledgeBase(path)
		if err != nil {
			return nil, err
		}
		cfg.KnowledgeBase = entries
	}

	return cfg, nil
}

// loadKnowledgeBase reads a text file of entries separated by blank lines.
func loadKnowledgeBase(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("KNOWLEDGE_BASE_FILE: %w", err)
	}
	var entries []string
	for _, block := range strings.Split(string(raw), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			entries = append(entries, block)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("KNOWLEDGE_BASE_FILE %s has no entries", path)
	}
	return entries, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}
