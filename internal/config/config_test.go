package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapedit/internal/editor"
	"snapedit/internal/effects"
	"snapedit/internal/layers"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultMatchesEditorDefaults(t *testing.T) {
	s, err := Default().EditorSettings()
	require.NoError(t, err)
	assert.Equal(t, editor.DefaultSettings(), s)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Tools.PenColor = "#00ff00"
	cfg.Tools.ShapeType = "arrow"
	cfg.Wand.Connectivity = 8
	cfg.History.Limit = 50
	cfg.Session.KeepHistory = true
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	s, err := got.EditorSettings()
	require.NoError(t, err)
	assert.Equal(t, layers.ShapeArrow, s.ShapeType)
	assert.Equal(t, uint8(255), s.Pen.Color.G)
	assert.Equal(t, effects.Connect8, s.Wand.Connectivity)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tools]\neraser_size = 24\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24.0, cfg.Tools.EraserSize)
	assert.Equal(t, Default().Tools.PenColor, cfg.Tools.PenColor)
	assert.Equal(t, 10, cfg.Tools.MosaicBlock)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"bad color":        func(c *Config) { c.Tools.PenColor = "red" },
		"bad shape":        func(c *Config) { c.Tools.ShapeType = "star" },
		"zero thickness":   func(c *Config) { c.Tools.PenThickness = 0 },
		"alpha range":      func(c *Config) { c.Tools.HighlightAlpha = 1.5 },
		"mosaic block":     func(c *Config) { c.Tools.MosaicBlock = 0 },
		"wand tolerance":   func(c *Config) { c.Wand.Tolerance = 300 },
		"wand connect":     func(c *Config) { c.Wand.Connectivity = 6 },
		"history limit":    func(c *Config) { c.History.Limit = -1 },
		"log level":        func(c *Config) { c.Log.Level = "loud" },
		"thumbnail height": func(c *Config) { c.Session.ThumbnailHeight = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[wand]\nconnectivity = 5\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Default().Save(path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	reloaded := make(chan *Config, 4)
	w.OnReload(func(c *Config) { reloaded <- c })
	w.Start()
	defer w.Stop()

	cfg := Default()
	cfg.Tools.EraserSize = 42
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-reloaded:
		assert.Equal(t, 42.0, got.Tools.EraserSize)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	w.Stop()
	w.Stop()
}
