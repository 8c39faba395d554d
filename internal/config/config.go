package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config aggregates the application settings consumed by the bot, the
// downstream API providers and the HTTP surface.
type Config struct {
	Port                 string
	AppBaseURL           string
	AppInsightsKey       string
	ConnectionName       string
	SecurityKey          string
	SharePointSiteURL    string
	MongoURI             string
	TenantID             string
	MicrosoftAppID       string
	MicrosoftAppPassword string
	UseInMemoryState     bool
}

func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println(fmt.Printf("Error loading .env file: %v", err))
		return err
	}
	return nil
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Environment variable %s is required but not set", key)
	}
	return value
}

func GetEnvOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load builds the typed configuration from the environment. Required
// keys terminate the process when missing, the same way GetEnv does.
func Load() *Config {
	return &Config{
		Port:                 GetEnvOr("PORT", "3978"),
		AppBaseURL:           strings.TrimSuffix(GetEnv("APP_BASE_URL"), "/"),
		AppInsightsKey:       GetEnvOr("APP_INSIGHTS_KEY", ""),
		ConnectionName:       GetEnv("OAUTH_CONNECTION_NAME"),
		SecurityKey:          GetEnv("SECURITY_KEY"),
		SharePointSiteURL:    strings.TrimSuffix(GetEnv("SHAREPOINT_SITE_URL"), "/") + "/",
		MongoURI:             GetEnvOr("MONGODB_URI", ""),
		TenantID:             GetEnv("TENANT_ID"),
		MicrosoftAppID:       GetEnv("MICROSOFT_APP_ID"),
		MicrosoftAppPassword: GetEnv("MICROSOFT_APP_PASSWORD"),
		UseInMemoryState:     GetEnvOr("USE_IN_MEMORY_STATE", "false") == "true",
	}
}
