package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	AppEnv    string
	JWTKey    string
	SaltRound int

	CloudinaryURL       string // API base, overridable for local testing
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SendGridKey string
	EmailSender string

	SweepSchedule  string // cron spec for the orphan upload sweep
	SweepGraceMins int    // minimum age before an unreferenced upload is swept
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		AppEnv:    getEnv("APP_ENV", "development"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		CloudinaryURL:       getEnv("CLOUDINARY_URL", "https://api.cloudinary.com"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		SendGridKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender: getEnv("EMAIL_SENDER", "no-reply@coursebox.app"),

		SweepSchedule:  getEnv("UPLOAD_SWEEP_SCHEDULE", "@hourly"),
		SweepGraceMins: getEnvInt("UPLOAD_SWEEP_GRACE_MINUTES", 60),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.CloudinaryCloudName == "" {
		log.Println("Warning: CLOUDINARY_CLOUD_NAME is not set. Media uploads will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
