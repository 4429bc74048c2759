package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	FX        FXConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	URL string
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	UploadPerHour  int
	ProcessPerHour int
}

// FXConfig points at the external effects-rendering service.
type FXConfig struct {
	ServiceURL string
	Timeout    int // seconds
}

type StorageConfig struct {
	Backend      string // "local" or "r2"
	OriginalDir  string
	ProcessedDir string
	R2           R2Config
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("POSTGRES_URL")
	readSecret("JWT_SECRET")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("postgres.url", "POSTGRES_URL")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("ratelimit.upload_per_hour", "RATELIMIT_UPLOAD_PER_HOUR")
	_ = viper.BindEnv("ratelimit.process_per_hour", "RATELIMIT_PROCESS_PER_HOUR")
	_ = viper.BindEnv("fx.service_url", "FX_SERVICE_URL")
	_ = viper.BindEnv("fx.timeout", "FX_SERVICE_TIMEOUT")
	_ = viper.BindEnv("storage.backend", "STORAGE_BACKEND")
	_ = viper.BindEnv("storage.original_dir", "STORAGE_ORIGINAL_DIR")
	_ = viper.BindEnv("storage.processed_dir", "STORAGE_PROCESSED_DIR")
	_ = viper.BindEnv("storage.r2.account_id", "R2_ACCOUNT_ID")
	_ = viper.BindEnv("storage.r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("storage.r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("storage.r2.bucket_name", "R2_BUCKET_NAME")
	_ = viper.BindEnv("storage.r2.public_url", "R2_PUBLIC_URL")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("postgres.url", "")
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.upload_per_hour", 50)
	viper.SetDefault("ratelimit.process_per_hour", 30)

	// Effects service defaults
	viper.SetDefault("fx.service_url", "")
	viper.SetDefault("fx.timeout", 120)

	// Storage defaults mirror the directories the processing worker uses
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.original_dir", "original")
	viper.SetDefault("storage.processed_dir", "processed")

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Postgres: PostgresConfig{
			URL: viper.GetString("postgres.url"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			UploadPerHour:  viper.GetInt("ratelimit.upload_per_hour"),
			ProcessPerHour: viper.GetInt("ratelimit.process_per_hour"),
		},
		FX: FXConfig{
			ServiceURL: viper.GetString("fx.service_url"),
			Timeout:    viper.GetInt("fx.timeout"),
		},
		Storage: StorageConfig{
			Backend:      viper.GetString("storage.backend"),
			OriginalDir:  viper.GetString("storage.original_dir"),
			ProcessedDir: viper.GetString("storage.processed_dir"),
			R2: R2Config{
				AccountID:       viper.GetString("storage.r2.account_id"),
				AccessKeyID:     viper.GetString("storage.r2.access_key_id"),
				SecretAccessKey: viper.GetString("storage.r2.secret_access_key"),
				BucketName:      viper.GetString("storage.r2.bucket_name"),
				PublicURL:       viper.GetString("storage.r2.public_url"),
			},
		},
	}

	return cfg, nil
}
