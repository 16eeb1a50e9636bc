package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// BackendConfig points at the remote Season Collection REST API that
// owns all product, order and credential data.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	// Backend is "cookie" (token lives in an authenticated cookie) or
	// "postgres" (cookie holds a session id, record lives in the DB).
	Backend      string
	AuthKey      string
	CookieSecure bool
	// ConfirmTTL bounds how long a pending delete confirmation stays valid.
	ConfirmTTL time.Duration
	// MaxImageDim bounds uploaded image dimensions before embedding.
	MaxImageDim uint
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// LoginLimit / LoginWindow throttle sign-in attempts per client.
	LoginLimit  int
	LoginWindow time.Duration
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("BACKEND_BASE_URL", "https://season-collection-backend.onrender.com")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SESSION_BACKEND", "cookie")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("CONFIRM_TTL_SECONDS", 300)
	viper.SetDefault("MAX_IMAGE_DIM", 1024)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOGIN_RATE_LIMIT", 10)
	viper.SetDefault("LOGIN_RATE_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Session: SessionConfig{
			Backend:      viper.GetString("SESSION_BACKEND"),
			AuthKey:      viper.GetString("SESSION_AUTH_KEY"),
			CookieSecure: viper.GetBool("SESSION_COOKIE_SECURE"),
			ConfirmTTL:   time.Duration(viper.GetInt("CONFIRM_TTL_SECONDS")) * time.Second,
			MaxImageDim:  uint(viper.GetInt("MAX_IMAGE_DIM")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Enabled:     viper.GetBool("REDIS_ENABLED"),
			Host:        viper.GetString("REDIS_HOST"),
			Port:        viper.GetString("REDIS_PORT"),
			Password:    viper.GetString("REDIS_PASSWORD"),
			DB:          viper.GetInt("REDIS_DB"),
			LoginLimit:  viper.GetInt("LOGIN_RATE_LIMIT"),
			LoginWindow: time.Duration(viper.GetInt("LOGIN_RATE_WINDOW_SECONDS")) * time.Second,
		},
	}
}
