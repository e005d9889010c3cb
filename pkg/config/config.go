package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	DBDriver    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string

	MediaBackend   string
	MediaRoot      string
	MaxUploadBytes int64

	PostsPerPage  int
	IndexCacheTTL time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	CSRFEnabled   bool
	LoginURL      string
	CORSOrigins   []string

	FirebaseCredentialsPath string
}

// Load reads the configuration from the environment, after loading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		DBDriver:                getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:             getEnv("DATABASE_URL", getEnv("POSTGRES_CONN_STR", "")),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "yatube"),
		MediaBackend:            getEnv("MEDIA_BACKEND", "local"),
		MediaRoot:               getEnv("MEDIA_ROOT", "media"),
		MaxUploadBytes:          int64(getEnvInt("MEDIA_MAX_UPLOAD_BYTES", 5<<20)),
		PostsPerPage:            getEnvInt("POSTS_PER_PAGE", 10),
		IndexCacheTTL:           getEnvDuration("INDEX_CACHE_TTL", 20*time.Second),
		SessionSecret:           getEnv("SESSION_SECRET", "dev-insecure-secret"),
		SessionTTL:              getEnvDuration("SESSION_TTL", 14*24*time.Hour),
		SecureCookies:           getEnvBool("SECURE_COOKIES", false),
		CSRFEnabled:             getEnvBool("CSRF_ENABLED", true),
		LoginURL:                getEnv("LOGIN_URL", "/auth/login/"),
		CORSOrigins:             strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("20s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
