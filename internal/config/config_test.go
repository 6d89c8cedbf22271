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
	t.Setenv("PAUSALER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8275, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, filepath.Join("data", "license.dat"), cfg.GetLicenseFile())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAUSALER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PAUSALER_SERVER_PORT", "9000")
	t.Setenv("PAUSALER_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "pausaler.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"server:\n  port: 9100\npaths:\n  data_dir: "+filepath.ToSlash(dir)+"\n"), 0o644))
	t.Setenv("PAUSALER_CONFIG", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, dir, filepath.FromSlash(cfg.Paths.DataDir))
}

func TestLoadFileOverlaysAllSections(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "pausaler.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  read_timeout: 45s
  shutdown_timeout: 5s
security:
  rate_limit:
    enabled: false
    rps: 3
    burst: 2
logging:
  format: text
  output: file
  file_path: custom/pausaler.log
paths:
  logs_dir: custom
`), 0o644))
	t.Setenv("PAUSALER_CONFIG", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, float64(3), cfg.Security.RateLimit.RPS)
	assert.Equal(t, 2, cfg.Security.RateLimit.Burst)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, "custom/pausaler.log", cfg.Logging.FilePath)
	assert.Equal(t, "custom", cfg.Paths.LogsDir)
}

func TestLoadRateLimitDisableEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "pausaler.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(
		"security:\n  rate_limit:\n    enabled: false\n"), 0o644))
	t.Setenv("PAUSALER_CONFIG", configFile)
	t.Setenv("PAUSALER_SECURITY_RATE_LIMIT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "pausaler.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 9100\n"), 0o644))
	t.Setenv("PAUSALER_CONFIG", configFile)
	t.Setenv("PAUSALER_SERVER_PORT", "9200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = -1
	require.Error(t, cfg.validate())
}

func TestEmbeddedPublicKeyPEM(t *testing.T) {
	pem := EmbeddedPublicKeyPEM()
	assert.Contains(t, pem, "-----BEGIN PUBLIC KEY-----")
	assert.Contains(t, pem, "-----END PUBLIC KEY-----")
}

func TestPublicKeyPEMOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "dev_key.pem")
	require.NoError(t, os.WriteFile(override, []byte("-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"), 0o644))

	cfg := Default()
	cfg.License.PublicKeyFile = override

	pem, err := cfg.PublicKeyPEM()
	require.NoError(t, err)
	assert.Contains(t, pem, "AAAA")

	cfg.License.PublicKeyFile = filepath.Join(dir, "missing.pem")
	_, err = cfg.PublicKeyPEM()
	require.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.DataDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}
