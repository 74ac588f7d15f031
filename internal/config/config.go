package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Generative model configuration
	GeminiAPIKey     string
	AssistantModelID string
	FieldReportModel string

	// BigQuery configuration
	GCPProjectID    string
	BigQueryDataset string
	BigQueryTable   string

	// Submission retry configuration
	InsertMaxAttempts int
	InsertBaseDelay   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		AssistantModelID: getEnv("ASSISTANT_MODEL_ID", "gemini-2.5-flash"),
		FieldReportModel: getEnv("FIELD_REPORT_MODEL_ID", "gemini-1.5-flash"),

		GCPProjectID:    getEnv("GCP_PROJECT_ID", ""),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "health"),
		BigQueryTable:   getEnv("BIGQUERY_TABLE", "usu_procedures"),

		InsertMaxAttempts: getEnvAsInt("INSERT_MAX_ATTEMPTS", 3),
		InsertBaseDelay:   getEnvAsDuration("INSERT_BASE_DELAY", time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable into trimmed values
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
