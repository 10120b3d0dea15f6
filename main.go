// Package main provides the entry point for the snapedit desktop application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"snapedit/internal/app"
	"snapedit/internal/config"
	"snapedit/internal/logging"
	"snapedit/internal/ocr"
	"snapedit/internal/version"
	"snapedit/ui/mainwindow"
	"snapedit/ui/prefs"
	"snapedit/ui/theme"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	cfgPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to locate config: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Ignoring config %s: %v", cfgPath, err)
		cfg = config.Default()
	}

	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Printf("Invalid log level: %v", err)
	}
	logging.SetLogger(logging.NewTextLogger(os.Stderr, lvl))

	state, err := app.NewState(cfg)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	if err := state.WatchConfig(cfgPath); err != nil {
		log.Printf("Config hot reload disabled: %v", err)
	}

	engine, err := ocr.NewEngine(cfg.OCR.Language, cfg.OCR.TessdataPath)
	if err != nil {
		log.Printf("Text recognition disabled: %v", err)
	} else {
		defer engine.Close()
		state.SetRecognizer(engine)
	}

	a := fyneapp.NewWithID("io.snapedit")
	a.Settings().SetTheme(&theme.SnapEditTheme{})

	win := mainwindow.New(a, state, prefs.Load())
	win.SetTitle(version.Name)

	// Images named on the command line open as captures.
	if len(os.Args) > 1 {
		win.OpenFiles(os.Args[1:])
	}

	win.ShowAndRun()
}
