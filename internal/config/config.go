// Package config loads and validates the editor configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"snapedit/internal/effects"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/pkg/colorutil"
)

// Config is the full configuration file.
type Config struct {
	Tools   ToolsConfig   `toml:"tools"`
	Wand    WandConfig    `toml:"wand"`
	History HistoryConfig `toml:"history"`
	Session SessionConfig `toml:"session"`
	OCR     OCRConfig     `toml:"ocr"`
	Log     LogConfig     `toml:"log"`
}

// ToolsConfig holds the default style of every drawing tool.
type ToolsConfig struct {
	PenColor     string  `toml:"pen_color"`
	PenThickness float64 `toml:"pen_thickness"`

	HighlightColor     string  `toml:"highlight_color"`
	HighlightAlpha     float64 `toml:"highlight_alpha"`
	HighlightThickness float64 `toml:"highlight_thickness"`

	ShapeType      string  `toml:"shape_type"`
	ShapeColor     string  `toml:"shape_color"`
	ShapeThickness float64 `toml:"shape_thickness"`
	Fill           bool    `toml:"fill"`
	FillOpacity    float64 `toml:"fill_opacity"`

	TextColor     string  `toml:"text_color"`
	FontSize      float64 `toml:"font_size"`
	TextShadow    bool    `toml:"text_shadow"`
	TextUnderline bool    `toml:"text_underline"`

	EraserSize  float64 `toml:"eraser_size"`
	MosaicBlock int     `toml:"mosaic_block"`
}

// WandConfig configures the magic wand.
type WandConfig struct {
	Tolerance    float64 `toml:"tolerance"`
	Connectivity int     `toml:"connectivity"`
	Contiguous   bool    `toml:"contiguous"`
}

// HistoryConfig bounds the undo stack. Limit 0 is unlimited.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// SessionConfig controls multi-capture behavior.
type SessionConfig struct {
	// KeepHistory preserves a capture's undo stack across switches.
	// By default switching to a capture starts with empty stacks.
	KeepHistory     bool `toml:"keep_history"`
	ThumbnailHeight int  `toml:"thumbnail_height"`
}

// OCRConfig configures text recognition.
type OCRConfig struct {
	Language     string `toml:"language"`
	TessdataPath string `toml:"tessdata_path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			PenColor:           "#ff0000",
			PenThickness:       3,
			HighlightColor:     "#ffff00",
			HighlightAlpha:     0.5,
			HighlightThickness: 5,
			ShapeType:          "rectangle",
			ShapeColor:         "#ff0000",
			ShapeThickness:     2,
			FillOpacity:        0.3,
			TextColor:          "#ff0000",
			FontSize:           16,
			EraserSize:         10,
			MosaicBlock:        10,
		},
		Wand: WandConfig{
			Tolerance:    32,
			Connectivity: 4,
			Contiguous:   true,
		},
		Session: SessionConfig{
			ThumbnailHeight: effects.DefaultThumbnailHeight,
		},
		OCR: OCRConfig{
			Language: "eng",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the configuration file location, honoring
// $XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "snapedit", "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Logger().Debug("no config file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration, creating parent directories.
func (c *Config) Save(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks every field that has a constrained range.
func (c *Config) Validate() error {
	t := c.Tools
	for name, hex := range map[string]string{
		"pen_color":       t.PenColor,
		"highlight_color": t.HighlightColor,
		"shape_color":     t.ShapeColor,
		"text_color":      t.TextColor,
	} {
		if _, err := colorutil.ParseHex(hex); err != nil {
			return fmt.Errorf("tools.%s: %w", name, err)
		}
	}
	if _, err := layers.ParseShapeType(t.ShapeType); err != nil {
		return fmt.Errorf("tools.shape_type: %w", err)
	}
	switch {
	case t.PenThickness <= 0, t.HighlightThickness <= 0, t.ShapeThickness <= 0:
		return fmt.Errorf("tools: thickness must be positive")
	case t.HighlightAlpha < 0 || t.HighlightAlpha > 1:
		return fmt.Errorf("tools.highlight_alpha %.2f out of range 0-1", t.HighlightAlpha)
	case t.FillOpacity < 0 || t.FillOpacity > 1:
		return fmt.Errorf("tools.fill_opacity %.2f out of range 0-1", t.FillOpacity)
	case t.FontSize <= 0:
		return fmt.Errorf("tools.font_size must be positive")
	case t.EraserSize <= 0:
		return fmt.Errorf("tools.eraser_size must be positive")
	case t.MosaicBlock < 1:
		return fmt.Errorf("tools.mosaic_block must be at least 1")
	}

	if err := c.WandOptions().Validate(); err != nil {
		return fmt.Errorf("wand: %w", err)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	if c.Session.ThumbnailHeight < 0 {
		return fmt.Errorf("session.thumbnail_height must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// WandOptions converts the [wand] section.
func (c *Config) WandOptions() effects.WandOptions {
	return effects.WandOptions{
		Tolerance:    c.Wand.Tolerance,
		Connectivity: effects.Connectivity(c.Wand.Connectivity),
		Contiguous:   c.Wand.Contiguous,
	}
}
