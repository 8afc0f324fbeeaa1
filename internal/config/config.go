package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string

	// BaseURL is used to build links embedded in notification emails.
	BaseURL string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	ActionSecret     string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
	ActionExpiresIn  time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	SenderName string
	SenderAddr string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "jobboard"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
		BaseURL:     opt("APP_BASE_URL", "http://localhost:3000"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:      durationEnv("DB_CONNECT_TIMEOUT_SECONDS", 5*time.Second),
		PoolMaxConns:        int32Env("DB_POOL_MAX_CONNS", 10),
		PoolMinConns:        int32Env("DB_POOL_MIN_CONNS", 2),
		PoolMaxConnLifetime: durationEnv("DB_POOL_MAX_CONN_LIFETIME_SECONDS", time.Hour),
		PoolMaxConnIdleTime: durationEnv("DB_POOL_MAX_CONN_IDLE_SECONDS", 30*time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		ActionSecret:     req("JWT_ACTION_SECRET"),
		AccessExpiresIn:  durationEnv("JWT_ACCESS_EXPIRES_MINUTES", 15*time.Minute),
		RefreshExpiresIn: durationEnv("JWT_REFRESH_EXPIRES_MINUTES", 7*24*time.Hour),
		ActionExpiresIn:  durationEnv("JWT_ACTION_EXPIRES_MINUTES", time.Hour),
	}

	cfg.SMTP = SMTPConfig{
		Host:       opt("SMTP_HOST", ""),
		Port:       opt("SMTP_PORT", "587"),
		Username:   opt("SMTP_USERNAME", ""),
		Password:   os.Getenv("SMTP_PASSWORD"),
		SenderName: opt("SMTP_SENDER_NAME", "Job Matchmaker"),
		SenderAddr: opt("SMTP_SENDER_ADDR", ""),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      durationEnv("REDIS_TTL_SECONDS", 10*time.Minute),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	unit := time.Second
	if strings.Contains(key, "MINUTES") {
		unit = time.Minute
	}
	return time.Duration(v) * unit
}

func int32Env(key string, fallback int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
