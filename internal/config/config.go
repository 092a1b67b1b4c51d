package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DbDriver          string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	DatabaseURL       string
	DbAutoMigrate     bool
	DbMaxOpenConns    int
	DbMaxIdleConns    int
	DbConnMaxLifetime time.Duration

	IdentityURL      string
	JwksURL          string
	JwksCacheTTL     time.Duration
	JwksFetchTimeout time.Duration
	JwtIssuer        string
	JwtAudience      string
	JwtLeeway        time.Duration

	AllowedOrigins        []string
	TrustedProxies        []string
	EnableSecurityHeaders bool

	RateLimitEnabled   bool
	RateLimitPerMinute int
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	StorageRetryBackoff time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	identityURL := strings.TrimRight(getEnv("IDENTITY_URL", "http://localhost:3000"), "/")

	return &Config{
		AppPort:  getEnv("APP_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DbDriver:          getEnv("DB_DRIVER", "mysql"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "tasks"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "tasks"),
		DbName:            getEnv("MYSQL_DATABASE", "tasks"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DbAutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		DbMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DbMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DbConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		IdentityURL:      identityURL,
		JwksURL:          getEnv("JWKS_URL", identityURL+"/api/auth/jwks"),
		JwksCacheTTL:     getEnvDuration("JWKS_CACHE_TTL", 5*time.Minute),
		JwksFetchTimeout: getEnvDuration("JWKS_FETCH_TIMEOUT", 10*time.Second),
		JwtIssuer:        os.Getenv("JWT_ISSUER"),
		JwtAudience:      os.Getenv("JWT_AUDIENCE"),
		JwtLeeway:        getEnvDuration("JWT_LEEWAY", 0),

		AllowedOrigins:        parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		TrustedProxies:        parseList(os.Getenv("TRUSTED_PROXIES")),
		EnableSecurityHeaders: getEnvBool("ENABLE_SECURITY_HEADERS", true),

		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),

		StorageRetryBackoff: getEnvDuration("STORAGE_RETRY_BACKOFF", 100*time.Millisecond),
	}
}

// IsProduction reports whether logs should use the production encoder.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}

// getEnvDuration accepts Go durations ("5m") and bare seconds ("300").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if value, err := time.ParseDuration(raw); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
