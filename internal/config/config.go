package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// DatabaseType selects the dialect: sqlite (default), postgres or mysql.
	// DatabaseURL carries the DSN for the server-backed dialects;
	// DatabasePath is the sqlite file.
	DatabaseType string
	DatabaseURL  string
	DatabasePath string

	SessionDuration time.Duration
	SessionSecret   string

	UploadMaxSize  int64
	TemplatesPath  string
	StaticPath     string
	MigrationsPath string

	// AppBaseURL is the public base URL used in outbound links,
	// e.g. the password-reset email.
	AppBaseURL string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	S3Bucket     string
	S3BaseURL    string

	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string
}

// Load reads configuration from the environment, with a .env file as a
// development convenience, and applies sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort: getEnv("PORT", "8080"),

		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:  getEnv("DB_URL", ""),
		DatabasePath: getEnv("DB_PATH", "./tutorhub.db"),

		SessionDuration: getEnvDuration("SESSION_DURATION", 24*time.Hour),
		SessionSecret:   getEnv("SESSION_SECRET", ""),

		UploadMaxSize:  getEnvInt64("UPLOAD_MAX_SIZE", 5*1024*1024),
		TemplatesPath:  getEnv("TEMPLATES_PATH", "./templates"),
		StaticPath:     getEnv("STATIC_PATH", "./static"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "TutorHub"),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3BaseURL:    getEnv("S3_BASE_URL", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
