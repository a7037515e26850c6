package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("SHEET_SPREADSHEET_ID", "sheet-123")
	t.Setenv("SCRIPT_URL", "https://script.example.com/exec")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "Attendance", cfg.Sheet.Name)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d", cfg.Sheet.QueryBaseURL)
	assert.Equal(t, 2*time.Second, cfg.Sheet.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.Sheet.RefreshInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoad_MissingRequired(t *testing.T) {
	cases := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"secret", "JWT_SECRET_KEY", "JWT_SECRET_KEY is required"},
		{"spreadsheet", "SHEET_SPREADSHEET_ID", "SHEET_SPREADSHEET_ID is required"},
		{"script", "SCRIPT_URL", "SCRIPT_URL is required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(c.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.wantErr)
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETRY_DELAY", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRY_DELAY")
}

func TestLoad_AuditNeedsPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "Asia/Kolkata"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	cfg.App.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestGetEnvSlice_TrimsEntries(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvSlice("CORS_ALLOWED_ORIGINS", ""))
}

func TestLoad_AccessExpiration(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessExpiration)

	t.Setenv("JWT_ACCESS_EXPIRATION_TIME", "-1h")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_EXPIRATION_TIME")
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "debug"}}
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.App.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg.App.LogLevel = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
