package config

import (
	"os"
	"strconv"

	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	Migrate     bool

	// completion providers
	LLMProvider   string
	OpenAIAPIKey  string
	OpenAIModel   string
	GroqAPIKey    string
	GroqBaseURL   string
	GroqModel     string
	GeminiAPIKey  string
	GeminiModelID string

	// google cloud
	GCPCredentials   string // base64 encoded service account JSON
	GCPProjectID     string
	VertexRegion     string
	GCSBucket        string
	GCSPublicBaseURL string
	ImagenModelID    string

	// identity provider and billing
	AuthJWTSecret      string
	IdentityAdminURL   string
	IdentityServiceKey string
	StripeSecretKey    string
}

var AppConfig Config

func Load() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Warn("Warning: .env file not found, relying on environment variables")
	}

	AppConfig = Config{
		Port:        getEnv("PORT", "3000"),
		DatabaseURL: getEnv("DB_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Migrate:     getEnvAsBool("DB_MIGRATE", false),

		LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1"),
		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", ""),
		GroqModel:     getEnv("GROQ_MODEL_NAME", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", ""),

		GCPCredentials:   getEnv("GCP_SERVICE_ACCOUNT_CREDENTIALS", ""),
		GCPProjectID:     getEnv("GOOGLE_CLOUD_PROJECT_ID", ""),
		VertexRegion:     getEnv("GOOGLE_CLOUD_VERTEXAI_LOCATION", "us-central1"),
		GCSBucket:        getEnv("GCS_BUCKET", "images"),
		GCSPublicBaseURL: getEnv("GCS_PUBLIC_BASE_URL", ""),
		ImagenModelID:    getEnv("IMAGEN_MODEL_ID", "imagen-3.0-generate-002"),

		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		IdentityAdminURL:   getEnv("IDENTITY_ADMIN_URL", ""),
		IdentityServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
	}

	logger.SetLevel(AppConfig.LogLevel)

	if AppConfig.DatabaseURL == "" {
		logger.Log.Fatal("DB_URL environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
