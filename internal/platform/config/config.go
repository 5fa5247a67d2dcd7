package config

import (
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	// Decision policy
	AutoApplyThreshold float64

	// Generative model (Pass2)
	GeminiAPIKey      string `mapstructure:"GEMINI_API_KEY"`
	ModelName         string `mapstructure:"MODEL_NAME"`
	ModelMaxTokens    int32
	ModelTemperature  float32
	ModelTimeout      time.Duration
	ModelRetryBackoff time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("AUTO_APPLY_THRESHOLD", "0.85")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("MODEL_NAME", "gemini-2.5-flash")
	viper.SetDefault("MODEL_MAX_TOKENS", "512")
	viper.SetDefault("MODEL_TEMPERATURE", "0.1")
	viper.SetDefault("MODEL_TIMEOUT", "10s")
	viper.SetDefault("MODEL_RETRY_BACKOFF", "500ms")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.StoreDriver = viper.GetString("STORE_DRIVER")
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		log.Printf("Warning: Invalid value for STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.StoreDriver == StoreDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AutoApplyThreshold = parseFloatSetting("AUTO_APPLY_THRESHOLD", 0.85)
	if cfg.AutoApplyThreshold <= 0 || cfg.AutoApplyThreshold > 1 {
		log.Printf("Warning: AUTO_APPLY_THRESHOLD (%v) outside (0, 1]. Defaulting to 0.85.\n", cfg.AutoApplyThreshold)
		cfg.AutoApplyThreshold = 0.85
	}

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Model scoring is disabled; transactions fall back to rules and manual review.")
	}
	cfg.ModelName = viper.GetString("MODEL_NAME")

	maxTokens := viper.GetString("MODEL_MAX_TOKENS")
	n, err := strconv.ParseInt(maxTokens, 10, 32)
	if err != nil || n <= 0 {
		n = 512
		log.Printf("Warning: Invalid value for MODEL_MAX_TOKENS ('%s'). Defaulting to %d.\n", maxTokens, n)
	}
	cfg.ModelMaxTokens = int32(n)

	cfg.ModelTemperature = float32(parseFloatSetting("MODEL_TEMPERATURE", 0.1))
	cfg.ModelTimeout = parseDurationSetting("MODEL_TIMEOUT", 10*time.Second)
	cfg.ModelRetryBackoff = parseDurationSetting("MODEL_RETRY_BACKOFF", 500*time.Millisecond)

	return cfg, nil
}

func parseDurationSetting(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func parseFloatSetting(key string, fallback float64) float64 {
	raw := viper.GetString(key)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %v.\n", key, raw, fallback)
		}
		return fallback
	}
	return f
}
