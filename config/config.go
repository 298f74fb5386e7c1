package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/conectados/utils"
)

type Config struct {
	Env         string // dev, prod
	Port        string
	DatabaseURL string
	LogLevel    string
	CORSOrigins string

	JWTSecret     string
	JWTTTL        time.Duration
	JWTRefreshTTL time.Duration
	BcryptCost    int

	RedisAddr     string // empty disables the distributed slot lock
	RedisPassword string
	SlotLockTTL   time.Duration

	AMQPURL string // empty disables event publishing

	SMTP       utils.SMTPConfig
	Cloudinary utils.CloudinaryConfig

	SweepSchedule string // cron spec used by cmd/sweeper
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          getEnv("APP_PORT", "8000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        time.Duration(getInt("JWT_EXPIRES_MIN", 24*60)) * time.Minute,
		JWTRefreshTTL: time.Duration(getInt("JWT_REFRESH_EXPIRES_MIN", 7*24*60)) * time.Minute,
		BcryptCost:    getInt("BCRYPT_COST", bcrypt.DefaultCost),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SlotLockTTL:   getDuration("SLOT_LOCK_TTL", 5*time.Second),
		AMQPURL:       os.Getenv("AMQP_URL"),
		SMTP: utils.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
		Cloudinary: utils.CloudinaryConfig{
			URL:          os.Getenv("CLOUDINARY_URL"),
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			UploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			Folder:       getEnv("CLOUDINARY_FOLDER", "servicios"),
		},
		SweepSchedule: os.Getenv("SWEEP_SCHEDULE"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return Config{}, errors.New("JWT_SECRET is required outside APP_ENV=dev")
		}
		cfg.JWTSecret = "dev_secret_key"
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return cfg, nil
}

// MailEnabled reports whether booking mail can be sent.
func (c Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.User != ""
}

// Tokens builds the JWT issuer from the auth settings.
func (c Config) Tokens() utils.TokenIssuer {
	return utils.TokenIssuer{
		Secret:     []byte(c.JWTSecret),
		TTL:        c.JWTTTL,
		RefreshTTL: c.JWTRefreshTTL,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
