package config

import (
	"agenthub/internal/constants"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Auth configs
	JWTSecret                        string
	JWTExpirationMilliseconds        int
	JWTRefreshExpirationMilliseconds int
	AdminEmail                       string
	AdminPassword                    string
	OrgMembershipWebhookURL          string

	// Document store configs
	MongoURI          string
	MongoDatabaseName string

	// Relational store configs
	RelationalDBType     string
	RelationalDBHost     string
	RelationalDBPort     string
	RelationalDBName     string
	RelationalDBUsername string
	RelationalDBPassword string
	RelationalDBSSLMode  string

	// Feedback sink configs, empty type means the relational store above
	FeedbackDBType     string
	FeedbackDBHost     string
	FeedbackDBPort     string
	FeedbackDBName     string
	FeedbackDBUsername string
	FeedbackDBPassword string

	// Redis configs
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	// Webhook proxy configs
	WebhookAllowedHosts                 []string
	WebhookResponseHeaderTimeoutSeconds int
	WebhookStreamTimeoutSeconds         int

	// Session and preview configs
	SessionTTLHours            int
	LinkPreviewCacheTTLMinutes int
}

var Env Environment

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	// Auth configs
	Env.JWTSecret = getRequiredEnv("JWT_SECRET", "agenthub_jwt_secret")
	Env.JWTExpirationMilliseconds = getIntEnvWithDefault("JWT_EXPIRATION_MILLISECONDS", 1000*60*60*24*10)               // 10 days default
	Env.JWTRefreshExpirationMilliseconds = getIntEnvWithDefault("JWT_REFRESH_EXPIRATION_MILLISECONDS", 1000*60*60*24*30) // 30 days default
	Env.AdminEmail = getEnvWithDefault("AGENTHUB_ADMIN_EMAIL", "admin@agenthub.local")
	Env.AdminPassword = getEnvWithDefault("AGENTHUB_ADMIN_PASSWORD", "")
	Env.OrgMembershipWebhookURL = getEnvWithDefault("ORG_MEMBERSHIP_WEBHOOK_URL", "")

	// Document store configs
	Env.MongoURI = getRequiredEnv("AGENTHUB_MONGODB_URI", "mongodb://localhost:27017/agenthub")
	Env.MongoDatabaseName = getRequiredEnv("AGENTHUB_MONGODB_NAME", "agenthub")

	// Relational store configs
	Env.RelationalDBType = getEnvWithDefault("RELATIONAL_DB_TYPE", constants.DatabaseTypePostgreSQL)
	Env.RelationalDBHost = getRequiredEnv("RELATIONAL_DB_HOST", "localhost")
	Env.RelationalDBPort = getRequiredEnv("RELATIONAL_DB_PORT", "5432")
	Env.RelationalDBName = getRequiredEnv("RELATIONAL_DB_NAME", "agenthub")
	Env.RelationalDBUsername = getRequiredEnv("RELATIONAL_DB_USERNAME", "agenthub")
	Env.RelationalDBPassword = getRequiredEnv("RELATIONAL_DB_PASSWORD", "")
	Env.RelationalDBSSLMode = getEnvWithDefault("RELATIONAL_DB_SSL_MODE", "disable")

	Env.FeedbackDBType = getEnvWithDefault("FEEDBACK_DB_TYPE", "")
	Env.FeedbackDBHost = getEnvWithDefault("FEEDBACK_DB_HOST", "localhost")
	Env.FeedbackDBPort = getEnvWithDefault("FEEDBACK_DB_PORT", "9000")
	Env.FeedbackDBName = getEnvWithDefault("FEEDBACK_DB_NAME", "agenthub")
	Env.FeedbackDBUsername = getEnvWithDefault("FEEDBACK_DB_USERNAME", "default")
	Env.FeedbackDBPassword = getEnvWithDefault("FEEDBACK_DB_PASSWORD", "")

	// Redis configs
	Env.RedisHost = getRequiredEnv("AGENTHUB_REDIS_HOST", "localhost")
	Env.RedisPort = getRequiredEnv("AGENTHUB_REDIS_PORT", "6379")
	Env.RedisUsername = getRequiredEnv("AGENTHUB_REDIS_USERNAME", "agenthub")
	Env.RedisPassword = getRequiredEnv("AGENTHUB_REDIS_PASSWORD", "agenthub")

	// Webhook proxy configs
	Env.WebhookAllowedHosts = getListEnv("WEBHOOK_ALLOWED_HOSTS")
	Env.WebhookResponseHeaderTimeoutSeconds = getIntEnvWithDefault("WEBHOOK_RESPONSE_HEADER_TIMEOUT_SECONDS", constants.DefaultWebhookResponseHeaderTimeoutSeconds)
	Env.WebhookStreamTimeoutSeconds = getIntEnvWithDefault("WEBHOOK_STREAM_TIMEOUT_SECONDS", constants.DefaultWebhookStreamTimeoutSeconds)

	Env.SessionTTLHours = getIntEnvWithDefault("SESSION_TTL_HOURS", constants.DefaultSessionTTLHours)
	Env.LinkPreviewCacheTTLMinutes = getIntEnvWithDefault("LINK_PREVIEW_CACHE_TTL_MINUTES", constants.DefaultLinkPreviewCacheTTLMinutes)

	return validateConfig()
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getRequiredEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv reads a comma separated list, dropping blanks
func getListEnv(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, strings.ToLower(part))
		}
	}
	return values
}

func validateConfig() error {
	if !isValidURI(Env.MongoURI) {
		return fmt.Errorf("invalid AGENTHUB_MONGODB_URI format: %s", Env.MongoURI)
	}

	if Env.JWTExpirationMilliseconds <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MILLISECONDS must be positive, got: %d", Env.JWTExpirationMilliseconds)
	}

	switch Env.RelationalDBType {
	case constants.DatabaseTypePostgreSQL, constants.DatabaseTypeMySQL:
	default:
		return fmt.Errorf("unsupported RELATIONAL_DB_TYPE: %s", Env.RelationalDBType)
	}

	switch Env.FeedbackDBType {
	case "", constants.DatabaseTypePostgreSQL, constants.DatabaseTypeMySQL, constants.DatabaseTypeClickhouse:
	default:
		return fmt.Errorf("unsupported FEEDBACK_DB_TYPE: %s", Env.FeedbackDBType)
	}

	if Env.WebhookResponseHeaderTimeoutSeconds <= 0 || Env.WebhookStreamTimeoutSeconds <= 0 {
		return fmt.Errorf("webhook timeouts must be positive")
	}

	if Env.OrgMembershipWebhookURL != "" {
		if _, err := url.ParseRequestURI(Env.OrgMembershipWebhookURL); err != nil {
			return fmt.Errorf("invalid ORG_MEMBERSHIP_WEBHOOK_URL: %v", err)
		}
	}

	return nil
}

func isValidURI(uri string) bool {
	return len(uri) > 0 && (len(uri) > 10)
}
