package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string
	GeminiAPIKey string
	LLMTimeout   time.Duration

	TransformUsageLimit    int
	AISuggestionUsageLimit int
	AISuggestionWindow     time.Duration
	LLMRateLimitPerMinute  float64
	LLMRateLimitBurst      int
	MaxUploadBytes         int64
	ObjectStoreType        string
	LocalStoreDir          string
	AWSRegion              string
	S3Bucket               string
	S3Prefix               string
	SSEKMSKeyID            string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Existing
	// variables win over file values.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:             env,
		DatabaseURL:     dbURL,

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTTTL:     getEnvDuration("JWT_TTL", 24*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 12),

		LLMProvider:  normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:     getEnv("LLM_MODEL", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		LLMTimeout:   getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		TransformUsageLimit:    getEnvInt("TRANSFORM_USAGE_LIMIT", 4),
		AISuggestionUsageLimit: getEnvInt("AI_SUGGESTION_USAGE_LIMIT", 10),
		AISuggestionWindow:     time.Duration(getEnvInt("AI_SUGGESTION_WINDOW_HOURS", 24)) * time.Hour,
		LLMRateLimitPerMinute:  float64(getEnvInt("LLM_RATE_LIMIT_PER_MINUTE", 10)),
		LLMRateLimitBurst:      getEnvInt("LLM_RATE_LIMIT_BURST", 5),
		MaxUploadBytes:         int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		ObjectStoreType:        normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:              getEnv("AWS_REGION", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Prefix:               getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:            getEnv("SSE_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "none", "off":
		return "none"
	default:
		return "openai"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
