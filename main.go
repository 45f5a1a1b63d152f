// Package main provides the entry point for the Region Annotator application.
package main

import (
	"flag"
	"fmt"
	"os"

	"region-annotator/internal/app"
	"region-annotator/internal/config"
	"region-annotator/internal/ocr"
	"region-annotator/internal/version"
	"region-annotator/ui/mainwindow"
	"region-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.region-annotator"

func main() {
	envFile := flag.String("env", ".env", "Optional .env file with ANNOTATOR_* settings")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-env file] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*envFile)
	logger := newLogger(cfg.LogLevel)
	if err != nil {
		logger.Warn("using default configuration", "error", err)
	}
	logger.Info("starting", "version", version.Version,
		"canvas_width", cfg.CanvasWidth, "canvas_height", cfg.CanvasHeight)

	state := app.NewState(cfg, logger)

	recognizer, err := ocr.NewEngine(cfg.OCRLanguage, logger)
	if err != nil {
		logger.Warn("text recognition disabled", "error", err)
	} else {
		defer recognizer.Close()
		state.SetRecognizer(recognizer)
	}

	if cfg.SeedSamples {
		state.SeedSamples()
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.AnnotatorTheme{})

	win := mainwindow.New(fyneApp, state, prefs.Load(), logger)
	win.Resize(fyne.NewSize(1280, 800))

	if flag.NArg() > 0 {
		win.OpenImage(flag.Arg(0))
	}

	win.ShowAndRun()
}
