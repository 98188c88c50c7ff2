package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteelite/cookadmin/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 200, cfg.API.SuccessCode)
	assert.Equal(t, "application/json", cfg.API.Headers["Content-Type"])
	assert.Equal(t, "token", cfg.Auth.TokenKey)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
api:
  base_url: https://kitchen.example.com/api
  timeout: 3s
  success_code: 0
  headers:
    X-Tenant: north
log:
  level: debug
kafka:
  enabled: true
  brokers: [broker-1:9092]
`)
	t.Setenv("COOKADMIN_TIMEOUT", "750ms")
	t.Setenv("COOKADMIN_KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("COOKADMIN_LOG_JSON", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://kitchen.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.API.Timeout)
	assert.Equal(t, 0, cfg.API.SuccessCode)
	assert.Equal(t, "north", cfg.API.Headers["X-Tenant"])
	assert.Equal(t, "application/json", cfg.API.Headers["Content-Type"])
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = config.Load(writeFile(t, "api: [not, a, map]"))
	assert.ErrorContains(t, err, "parse config file")

	t.Setenv("COOKADMIN_SUCCESS_CODE", "ok")
	_, err = config.Load("")
	assert.ErrorContains(t, err, "COOKADMIN_SUCCESS_CODE")
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.API.BaseURL = " "
	cfg.Kafka.Enabled = true
	err := cfg.Validate()
	assert.ErrorContains(t, err, "api.base_url is required")
	assert.ErrorContains(t, err, "kafka.brokers is required")
}
