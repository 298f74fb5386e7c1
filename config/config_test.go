package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/conectados")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "dev_secret_key", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.SlotLockTTL)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/conectados")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_EXPIRES_MIN", "15")
	t.Setenv("SLOT_LOCK_TTL", "750ms")
	t.Setenv("BCRYPT_COST", "oops")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_USER", "bot@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.Tokens().TTL)
	assert.Equal(t, 750*time.Millisecond, cfg.SlotLockTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.MailEnabled())
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/conectados")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("APP_ENV", "dev")
	t.Setenv("BCRYPT_COST", "99")
	_, err = Load()
	assert.Error(t, err)
}
