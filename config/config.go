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
	Env       string
	JWTKey    string
	SaltRound int

	CohereApiKey string
	CohereApiUrl string
	CohereModel  string

	SendGridApiKey string
	EmailSender    string

	RedisAddr string

	// Proctoring policy knobs
	GraceSeconds      int // seconds a student gets to return to fullscreen
	SessionTTLMinutes int // how long an idle attempt session is kept alive
	QuizAttemptTTL    int // minutes a generated quiz attempt stays valid
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
		Port:      getEnv("PORT", "5000"),
		Env:       getEnv("APP_ENV", "development"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		CohereApiKey: getEnv("COHERE_API_KEY", ""),
		CohereApiUrl: getEnv("COHERE_API_URL", "https://api.cohere.com/v1/chat"),
		CohereModel:  getEnv("COHERE_MODEL", "command-r-08-2024"),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@edutrek.io"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		GraceSeconds:      getEnvInt("PROCTOR_GRACE_SECONDS", 50),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 180),
		QuizAttemptTTL:    getEnvInt("QUIZ_ATTEMPT_TTL_MINUTES", 60),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
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
