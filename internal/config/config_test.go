package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFLECTION_AUTO_RESOLVE_THRESHOLD", "")
	t.Setenv("AUTH_OPERATOR_PASSWORD_HASH", "")
	t.Setenv("DEFLECTION_EXTENDED_RULES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 0.5, cfg.Deflection.AutoResolveThreshold)
	assert.Equal(t, 3, cfg.Deflection.MinTokenLength)
	assert.False(t, cfg.Auth.OperatorAuthEnabled())
	assert.False(t, cfg.Deflection.ExtendedRules)
}

func TestLoad_PostgresSelectedByDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/deflection")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	t.Setenv("STORE_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "postgres")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFLECTION_AUTO_RESOLVE_THRESHOLD", "half")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFLECTION_AUTO_RESOLVE_THRESHOLD", "0.75")
	t.Setenv("REDIS_KNOWLEDGE_CACHE_TTL_SECONDS", "60")
	t.Setenv("AUTH_OPERATOR_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("DEFLECTION_EXTENDED_RULES", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Deflection.AutoResolveThreshold)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL())
	assert.True(t, cfg.Auth.OperatorAuthEnabled())
	assert.True(t, cfg.Deflection.ExtendedRules)
}

func TestAppConfig_RequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
	assert.Equal(t, "127.0.0.1:9000", AppConfig{Host: "127.0.0.1", Port: "9000"}.Addr())
}
