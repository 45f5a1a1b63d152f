// Command replay feeds a scripted pointer session into the capture engine
// and prints the resulting annotation export.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"

	"region-annotator/internal/app"
	"region-annotator/internal/config"
	"region-annotator/internal/region"
	"region-annotator/pkg/colorutil"
)

func main() {
	scriptPath := flag.String("script", "", "Path to replay script (YAML or JSON)")
	imagePath := flag.String("image", "", "Background image (overrides the script's image)")
	output := flag.String("o", "", "Write the export to this file instead of stdout")
	width := flag.Int("width", 0, "Canvas width (default from config)")
	height := flag.Int("height", 0, "Canvas height (default from config)")
	counterIDs := flag.Bool("counter-ids", false, "Use sequential IDs (r1, r2, ...) instead of UUIDs")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: replay -script <file> [-image <path>] [-o out.json] [-counter-ids]")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config: %v\n", err)
	}
	if *width > 0 {
		cfg.CanvasWidth = *width
	}
	if *height > 0 {
		cfg.CanvasHeight = *height
	}
	cfg.Validate()

	data, err := os.ReadFile(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read script: %v\n", err)
		os.Exit(1)
	}
	script, err := ParseScript(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	state := app.NewState(cfg, logger)
	if *counterIDs {
		state.Engine.SetIDGenerator(&region.CounterGenerator{Prefix: "r"})
	}

	background := *imagePath
	if background == "" && script.Image != "" {
		background = script.Image
		if !filepath.IsAbs(background) {
			background = filepath.Join(filepath.Dir(*scriptPath), background)
		}
	}
	if err := installBackground(state, background); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}

	if err := script.Run(state); err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		path, err := state.ExportTo(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d annotations to %s\n", state.Store.Len(), path)
		return
	}
	if _, err := state.Store.WriteTo(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
}

// installBackground loads path, or a blank white canvas when path is empty.
func installBackground(state *app.State, path string) error {
	if path == "" {
		w, h := state.Engine.Size()
		blank := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(blank, blank.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)
		state.Engine.SetImage("blank.png", blank)
		return nil
	}
	done, err := state.LoadImageFile(path)
	if err != nil {
		return err
	}
	return <-done
}
