package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 60*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 6, cfg.HomeFeaturedLimit)
	assert.Equal(t, "@daily", cfg.OrphanReviewSweepSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.ElasticsearchURL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("HOME_FEATURED_LIMIT", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SERVER_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_CONN_MAX_LIFETIME_MINUTES", "15")

	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.HomeFeaturedLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 15*time.Minute, cfg.DBConnMaxLifetime)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.FirebaseServiceAccountKeyPath = filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, cfg.Validate())

	keyPath := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(keyPath, []byte("{}"), 0o600))
	cfg.FirebaseServiceAccountKeyPath = keyPath
	assert.NoError(t, cfg.Validate())
}
