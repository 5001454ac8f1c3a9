package config

import (
	"testing"
	"time"

	apperrors "replayrng/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "DEFAULT_SEED", "MAX_RESTORE_DISTANCE", "MAX_BATCH", "AUDIT_SAMPLES", "AUDIT_BUCKETS", "AUDIT_WORKERS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int32(12345), cfg.Engine.DefaultSeed)
	assert.Equal(t, 10_000_000, cfg.Engine.MaxRestoreDistance)
	assert.Equal(t, 10_000, cfg.Engine.MaxBatch)
	assert.Equal(t, 64, cfg.Audit.Buckets)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.UsePostgres())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rng?sslmode=disable")
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_SEED", "-2147483648")
	t.Setenv("MAX_BATCH", "50")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int32(-2147483648), cfg.Engine.DefaultSeed)
	assert.Equal(t, 50, cfg.Engine.MaxBatch)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"seed overflows int32", "DEFAULT_SEED", "2147483648"},
		{"seed not a number", "DEFAULT_SEED", "abc"},
		{"non-positive restore distance", "MAX_RESTORE_DISTANCE", "0"},
		{"single bucket", "AUDIT_BUCKETS", "1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}
