package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabasePath    string
	MigrationsPath  string
	StaticFilesPath string

	// Cloud sync store; sync stays disabled when CloudDatabaseURL is empty
	CloudDatabaseType string
	CloudDatabaseURL  string

	// Tutor backend: "canned" or "live"
	TutorMode   string
	TutorURL    string
	OpenAIModel string

	// Parental gate
	DefaultParentCode string
	GateSecret        string
	GateDuration      time.Duration

	// Email delivery of export artifacts
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	ParentEmail  string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DB_PATH", "./kidtutor.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),

		CloudDatabaseType: getEnv("CLOUD_DATABASE_TYPE", "postgres"),
		CloudDatabaseURL:  getEnv("CLOUD_DATABASE_URL", ""),

		TutorMode:   getEnv("TUTOR_MODE", "canned"),
		TutorURL:    getEnv("TUTOR_URL", "http://localhost:"+getEnv("PORT", "8080")+"/api/tutor"),
		OpenAIModel: getEnv("OPENAI_MODEL", ""),

		DefaultParentCode: getEnv("PARENT_CODE", "1234"),
		GateSecret:        getEnv("GATE_SECRET", "kidtutor-dev-secret"),
		GateDuration:      15 * time.Minute,

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "KidTutor"),
		ParentEmail:  getEnv("PARENT_EMAIL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
