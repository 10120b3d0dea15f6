// Command snapreplay edits captures without a window: it replays gesture
// scripts, renders thumbnails and reads text out of capture regions.
//
// Usage:
//
//	snapreplay run --script edits.yaml --out out/ [image...]
//	snapreplay thumbs --height 120 --out thumbs/ image...
//	snapreplay ocr --rect 10,10,200,40 image
package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"snapedit/internal/config"
	"snapedit/internal/logging"
	"snapedit/internal/version"
)

var (
	flagConfig  string
	flagVerbose bool
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	root := &cobra.Command{
		Use:           "snapreplay",
		Short:         "Replay annotation scripts against captures",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/snapedit/config.toml)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newRunCmd(), newThumbsCmd(), newOCRCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "snapreplay:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the logger it asks for.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		lvl, _ = logging.ParseLevel("debug")
	}
	logging.SetLogger(logging.NewTextLogger(os.Stderr, lvl))
	return cfg, nil
}

// outputDir expands dir and creates it if needed.
func outputDir(dir string) (string, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return expanded, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// outputName numbers files so captures with the same name do not collide.
func outputName(dir string, i int, name, suffix string) string {
	if name == "" {
		name = "capture"
	}
	return filepath.Join(dir, fmt.Sprintf("%02d-%s%s.png", i+1, name, suffix))
}
