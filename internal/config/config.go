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
	Commerce CommerceConfig
	Ai       AIConfig
	Support  SupportConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

// CommerceConfig holds the passthrough API credentials. When APIKey or
// CredentialID is empty every fetch fails soft and the chat degrades to
// null data payloads.
type CommerceConfig struct {
	BaseURL      string
	APIKey       string
	CredentialID string
}

type AIConfig struct {
	OpenAIKey string
	BaseURL   string
	Model     string
}

type SupportConfig struct {
	CustomerID         string
	Personalize        bool
	DisplayName        string
	TurnTimeoutSeconds int
	SnapshotTopic      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Commerce: CommerceConfig{
			BaseURL:      getEnv("ALLOY_BASE_URL", "https://production.runalloy.com/2024-03/passthrough"),
			APIKey:       getEnv("ALLOY_API_KEY", ""),
			CredentialID: getEnv("SHOPIFY_CREDENTIAL_ID", ""),
		},
		Ai: AIConfig{
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			BaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:     getEnv("OPENAI_MODEL", "gpt-4o"),
		},
		Support: SupportConfig{
			CustomerID:         getEnv("SUPPORT_CUSTOMER_ID", "6806197010592"),
			Personalize:        getEnvAsBool("SUPPORT_PERSONALIZE", false),
			DisplayName:        getEnv("SUPPORT_DISPLAY_NAME", ""),
			TurnTimeoutSeconds: getEnvAsInt("SUPPORT_TURN_TIMEOUT_SECONDS", 30),
			SnapshotTopic:      getEnv("SNAPSHOT_TOPIC_NAME", "SUPPORT_TURN_COMPLETED"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
