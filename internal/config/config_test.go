package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 10, cfg.ReserveRatePerMin)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10000, cfg.RevokedCacheSize)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestFromViperOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("REVOKED_CACHE_SIZE", "500")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "-100200")
	t.Setenv("RESET_CRON", "0 22 * * 6")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 500, cfg.RevokedCacheSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.Equal(t, int64(-100200), cfg.AdminChatID)
	assert.Equal(t, "0 22 * * 6", cfg.ResetCron)
}

func TestFromViperValidation(t *testing.T) {
	t.Run("missing DB_DSN", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("JWT_SECRET", "secret")
		_, err := FromViper(viper.New())
		assert.ErrorContains(t, err, "DB_DSN")
	})

	t.Run("missing JWT_SECRET", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/scheduler")
		t.Setenv("JWT_SECRET", "")
		_, err := FromViper(viper.New())
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("telegram without chat", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/scheduler")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("TELEGRAM_TOKEN", "123:abc")
		t.Setenv("ADMIN_CHAT_ID", "")
		_, err := FromViper(viper.New())
		assert.ErrorContains(t, err, "ADMIN_CHAT_ID")
	})

	t.Run("non-positive revoked cache size", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/scheduler")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REVOKED_CACHE_SIZE", "0")
		_, err := FromViper(viper.New())
		assert.ErrorContains(t, err, "REVOKED_CACHE_SIZE")
	})
}
