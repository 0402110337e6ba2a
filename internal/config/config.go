package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Supabase   SupabaseConfig
	LLM        LLMConfig
	Extraction ExtractionConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN string
}

// SupabaseConfig points at the hosted auth service that issues session tokens.
type SupabaseConfig struct {
	URL         string
	AnonKey     string
	HTTPTimeout time.Duration
}

type LLMConfig struct {
	Provider    string // "openai" or "googleai"
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	CoverLetter GenerationLimits
	CV          GenerationLimits
}

type GenerationLimits struct {
	Temperature float64
	MaxTokens   int
}

type ExtractionConfig struct {
	Timeout              time.Duration
	SearchMaxResults     int64
	MaxMessagesPerSource int
}

// Load reads the environment, after giving a local .env file a chance to populate it.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and defaults.")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_URL", "host=localhost user=postgres password=password dbname=careerkit port=5432 sslmode=disable"),
		},
		Supabase: SupabaseConfig{
			URL:         strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:     getEnv("SUPABASE_ANON_KEY", ""),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "30s"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiKey:   getEnv("GEMINI_API_KEY", ""),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			CoverLetter: GenerationLimits{Temperature: 0.7, MaxTokens: 1000},
			CV:          GenerationLimits{Temperature: 0.7, MaxTokens: 1500},
		},
		Extraction: ExtractionConfig{
			Timeout:              getEnvAsDuration("EXTRACT_TIMEOUT", "2m"),
			SearchMaxResults:     int64(getEnvAsInt("SEARCH_MAX_RESULTS", 50)),
			MaxMessagesPerSource: getEnvAsInt("MAX_MESSAGES_PER_SOURCE", 10),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
