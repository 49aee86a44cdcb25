package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RashadAnsari/qrstudio"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "png", cfg.Generate.Format)
	assert.Equal(t, qrstudio.DefaultScanConfig(), cfg.Scan.ScanConfig())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qrstudio.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
generate:
  output_dir: /tmp/qr
  level: high
scan:
  fps: 5
  box_width: 300
`), 0o644))

	t.Setenv("QRSTUDIO_SCAN_DEFAULT_ZOOM", "3")
	t.Setenv("QRSTUDIO_LOG_FORMAT", "json")

	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/qr", cfg.Generate.OutputDir)
	assert.Equal(t, 5, cfg.Scan.FPS)
	assert.Equal(t, 300, cfg.Scan.BoxWidth)
	assert.Equal(t, 250, cfg.Scan.BoxHeight)
	assert.Equal(t, 3.0, cfg.Scan.DefaultZoom)

	level, err := cfg.Generate.RecoveryLevel()
	require.NoError(t, err)
	assert.Equal(t, qrstudio.High, level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QRSTUDIO_GENERATE_SIZE=128\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QRSTUDIO_GENERATE_SIZE") })

	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Generate.Size)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	_, err := Load(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRecoveryLevel(t *testing.T) {
	for in, want := range map[string]qrstudio.RecoveryLevel{
		"low":     qrstudio.Low,
		"":        qrstudio.Medium,
		"M":       qrstudio.Medium,
		"highest": qrstudio.Highest,
	} {
		got, err := Generate{Level: in}.RecoveryLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := Generate{Level: "ultra"}.RecoveryLevel()
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
