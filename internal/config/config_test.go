package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "0 7 * * *", cfg.AgendaCron)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestLoadFileExpandsEnvAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: staging
server_port: "9000"
jwt_secret: ${TEST_JWT_SECRET}
jwt_ttl: 2h
cors_origins:
  - https://example.com
redis:
  address: localhost:6379
lock:
  ttl: 3s
  wait: 1s
s3:
  bucket: blog-assets
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("TEST_JWT_SECRET", "from-yaml-env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "from-yaml-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, ":7000", cfg.Addr())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.Lock.TTL)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.S3Enabled())
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Chdir(t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
