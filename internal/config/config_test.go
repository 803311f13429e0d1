package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultMinCloneLines, cfg.Clones.MinLines)
	assert.Equal(t, DefaultBranchThreshold, cfg.Flow.BranchThreshold)
	assert.Equal(t, DefaultMaxParameters, cfg.Smells.MaxParameters)
	assert.True(t, cfg.Analysis.Recursive)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadConfig(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultMinCloneLines, cfg.Clones.MinLines)
	})

	t.Run("TOMLOverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		content := "[clones]\nmin_lines = 12\n\n[flow]\nbranch_threshold = 3\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Clones.MinLines)
		assert.Equal(t, 3, cfg.Flow.BranchThreshold)
		assert.Equal(t, DefaultMaxParameters, cfg.Smells.MaxParameters, "untouched sections keep defaults")
	})

	t.Run("YAMLOverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		content := "smells:\n  max_parameters: 3\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Smells.MaxParameters)
	})

	t.Run("MalformedFileIsAnError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.toml")
		require.NoError(t, os.WriteFile(path, []byte("[clones\nmin_lines"), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CONFIG_ERROR")
	})
}

func TestWriteDefault(t *testing.T) {
	t.Run("TOMLRoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".codepulse.toml")
		require.NoError(t, WriteDefault(path))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("YAMLRoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".codepulse.yaml")
		require.NoError(t, WriteDefault(path))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("UnknownExtensionRejected", func(t *testing.T) {
		err := WriteDefault(filepath.Join(t.TempDir(), "cfg.ini"))
		assert.Error(t, err)
	})
}
