package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Sheet    SheetConfig
	Audit    AuditConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// SheetConfig describes the spreadsheet backend and the services around it.
type SheetConfig struct {
	SpreadsheetID   string
	Name            string
	QueryBaseURL    string
	ScriptURL       string
	GeocoderURL     string
	UserAgent       string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration
	RetryDelay      time.Duration
}

type AuditConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "sheet-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	auditEnabled, err := strconv.ParseBool(getEnv("AUDIT_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_ENABLED: %w", err)
	}
	config.Audit = AuditConfig{Enabled: auditEnabled}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Spreadsheet backend
	httpTimeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	refreshInterval, err := time.ParseDuration(getEnv("REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	retryDelay, err := time.ParseDuration(getEnv("RETRY_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_DELAY: %w", err)
	}

	config.Sheet = SheetConfig{
		SpreadsheetID:   getEnv("SHEET_SPREADSHEET_ID", ""),
		Name:            getEnv("SHEET_NAME", "Attendance"),
		QueryBaseURL:    getEnv("SHEET_QUERY_BASE_URL", "https://docs.google.com/spreadsheets/d"),
		ScriptURL:       getEnv("SCRIPT_URL", ""),
		GeocoderURL:     getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:       getEnv("HTTP_USER_AGENT", "sheet-attendance/1.0"),
		HTTPTimeout:     httpTimeout,
		RefreshInterval: refreshInterval,
		RetryDelay:      retryDelay,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Sheet.SpreadsheetID == "" {
		return fmt.Errorf("SHEET_SPREADSHEET_ID is required")
	}
	if c.Sheet.ScriptURL == "" {
		return fmt.Errorf("SCRIPT_URL is required")
	}
	if c.Sheet.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Audit.Enabled && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when AUDIT_ENABLED is set")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves APP_TIMEZONE. Date literals from the sheet carry no zone and are
// interpreted in this location, as is "today".
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
