package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "memory", cfg.IdempotencyBackend)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, time.UTC, cfg.BudgetTimezone)
	assert.Equal(t, "€", cfg.CurrencySymbol)
	assert.False(t, cfg.StoreBreaker)
	assert.Equal(t, uint32(5), cfg.BreakerFailures)
}

func TestLoad_PostgresDefaultsIdempotencyToPostgres(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/fuel")
	t.Setenv("STORE_BREAKER", "on")
	t.Setenv("BUDGET_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.IdempotencyBackend)
	assert.True(t, cfg.StoreBreaker)
	assert.Equal(t, "Europe/Berlin", cfg.BudgetTimezone.String())
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"jwt without settings", map[string]string{"AUTH_MODE": "jwt", "JWT_ISSUER": "", "JWT_AUDIENCE": "", "JWT_JWKS_URL": ""}},
		{"unknown backend", map[string]string{"AUTH_MODE": "dev", "STORAGE_BACKEND": "mongo"}},
		{"postgres without dsn", map[string]string{"AUTH_MODE": "dev", "STORAGE_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"firestore without project", map[string]string{"AUTH_MODE": "dev", "STORAGE_BACKEND": "firestore", "FIRESTORE_PROJECT_ID": ""}},
		{"bad ttl", map[string]string{"AUTH_MODE": "dev", "IDEMPOTENCY_TTL": "soon"}},
		{"bad timezone", map[string]string{"AUTH_MODE": "dev", "BUDGET_TIMEZONE": "Mars/Olympus"}},
		{"bad breaker", map[string]string{"AUTH_MODE": "dev", "STORE_BREAKER": "maybe"}},
		{"bad log format", map[string]string{"AUTH_MODE": "dev", "LOG_FORMAT": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadJWTConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_ISSUER", "https://issuer.example")
	t.Setenv("JWT_AUDIENCE", "fuel-budget")
	t.Setenv("JWT_JWKS_URL", "https://issuer.example/jwks.json")
	t.Setenv("JWT_CLOCK_SKEW", "45s")

	cfg, err := LoadJWTConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.ClockSkew)
	assert.Equal(t, 5*time.Minute, cfg.JWKSRefreshInterval)
}

func TestLoadStorage_IgnoresAuth(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")
	t.Setenv("JWT_JWKS_URL", "")

	_, err := Load()
	require.Error(t, err)

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StorageBackend)
}
