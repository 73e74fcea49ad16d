package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	HTTPAddr string

	// 持久化槽位存储
	StoreBackend   string // sqlite, redis, mysql, postgres, memory
	StoreKeyPrefix string
	SQLitePath     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// 媒体文件存储
	MediaBackend   string // local, minio
	MediaDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	JWTSecret string
	JWTTTL    time.Duration

	// Upload suggestions. An empty key disables the remote call.
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	SuggestTimeout time.Duration
	SuggestTTL     time.Duration // Redis suggestion cache, 0 disables it

	// 投递目录，在 server 进程内监听
	WatchEnabled bool
	WatchDir     string
	WatchSettle  time.Duration

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", "sqlite")),
		StoreKeyPrefix: getEnv("STORE_KEY_PREFIX", "novastream_"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/novastream.db"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPassword:     os.Getenv("DB_PASSWORD"), // no default for the password
		DBName:         getEnv("DB_NAME", "novastream"),
		RedisHost:      getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""), // 默认无密码
		RedisDB:        getEnvInt("REDIS_DB", 0),
		MediaBackend:   strings.ToLower(getEnv("MEDIA_BACKEND", "local")),
		MediaDir:       getEnv("MEDIA_DIR", "uploads"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "novastream"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		JWTSecret:      getEnv("JWT_SECRET", "novastream-dev-secret"),
		JWTTTL:         getEnvDuration("JWT_TTL", 24*time.Hour),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SuggestTimeout: getEnvDuration("SUGGEST_TIMEOUT", 15*time.Second),
		SuggestTTL:     getEnvDuration("SUGGEST_CACHE_TTL", 0),
		WatchEnabled:   getEnvBool("WATCH_ENABLED", false),
		WatchDir:       getEnv("WATCH_DIR", "inbox"),
		WatchSettle:    getEnvDuration("WATCH_SETTLE", 2*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", "logs/novastream.log"),
		LogMaxSize:     getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups:  getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:      getEnvInt("LOG_MAX_AGE", 28),
		LogCompress:    getEnvBool("LOG_COMPRESS", true),
	}
}
