package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 44100, c.SampleRate)
	require.True(t, c.TreatRecsAsLoops)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 48000\nbuffer_size: 256\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 48000, c.SampleRate)
	require.Equal(t, 256, c.BufferSize)
	// Untouched fields keep their defaults.
	require.True(t, c.ResizeRecordings)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 48000\n"), 0o644))

	t.Setenv("GIADA_SAMPLE_RATE", "96000")
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 96000, c.SampleRate)
}
