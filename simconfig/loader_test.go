package simconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	TickRate     int `toml:"tick_rate" yaml:"tick_rate"`
	MaxWaveDepth int `toml:"max_wave_depth" yaml:"max_wave_depth"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderHigherPrioritySourceWins(t *testing.T) {
	dir := t.TempDir()
	basePath := writeFile(t, dir, "base.toml", "tick_rate = 30\nmax_wave_depth = 4\n")
	overridePath := writeFile(t, dir, "override.toml", "tick_rate = 60\n")

	loader := NewLoader()
	loader.AddSource(NewTomlSource(basePath, 0))
	loader.AddSource(NewTomlSource(overridePath, 10))

	var cfg testConfig
	require.NoError(t, loader.Load(&cfg))

	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 4, cfg.MaxWaveDepth)
}

func TestLoaderTracksProvenance(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "base.toml", "tick_rate = 30\n")

	loader := NewLoader()
	loader.AddSource(NewTomlSource(path, 0))

	var cfg testConfig
	require.NoError(t, loader.Load(&cfg))

	prov, ok := loader.Provenance("tick_rate")
	require.True(t, ok)
	assert.Contains(t, prov.Source, "base.toml")
}

func TestLoaderYamlSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "base.yaml", "tick_rate: 45\nmax_wave_depth: 6\n")

	loader := NewLoader()
	loader.AddSource(NewYamlSource(path, 0))

	var cfg testConfig
	require.NoError(t, loader.Load(&cfg))

	assert.Equal(t, 45, cfg.TickRate)
	assert.Equal(t, 6, cfg.MaxWaveDepth)
}
