// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCanvasWidth  = "ANNOTATOR_CANVAS_WIDTH"
	EnvCanvasHeight = "ANNOTATOR_CANVAS_HEIGHT"
	EnvPlaceholder  = "ANNOTATOR_PLACEHOLDER"
	EnvExportFile   = "ANNOTATOR_EXPORT_FILE"
	EnvLogLevel     = "ANNOTATOR_LOG_LEVEL"
	EnvOCRLanguage  = "ANNOTATOR_OCR_LANGUAGE"
	EnvSeedSamples  = "ANNOTATOR_SEED_SAMPLES"
)

// Config holds runtime configuration.
type Config struct {
	CanvasWidth  int
	CanvasHeight int
	Placeholder  string
	ExportFile   string
	LogLevel     slog.Level
	OCRLanguage  string
	SeedSamples  bool
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	return &Config{
		CanvasWidth:  800,
		CanvasHeight: 600,
		Placeholder:  "New annotation",
		ExportFile:   "annotations.json",
		LogLevel:     slog.LevelInfo,
		OCRLanguage:  "eng",
	}
}

// Load reads the given .env files (".env" when none are given; missing
// files are ignored) and then applies environment overrides to the defaults.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Default(), fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv(EnvCanvasWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvCanvasWidth, err)
		}
		cfg.CanvasWidth = n
	}
	if v := getenv(EnvCanvasHeight); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvCanvasHeight, err)
		}
		cfg.CanvasHeight = n
	}
	if v := getenv(EnvPlaceholder); v != "" {
		cfg.Placeholder = v
	}
	if v := getenv(EnvExportFile); v != "" {
		cfg.ExportFile = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v := getenv(EnvOCRLanguage); v != "" {
		cfg.OCRLanguage = v
	}
	if v := getenv(EnvSeedSamples); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeedSamples, err)
		}
		cfg.SeedSamples = b
	}

	cfg.Validate()
	return cfg, nil
}

// Validate clamps values to usable ranges.
func (c *Config) Validate() {
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = 800
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = 600
	}
	if strings.TrimSpace(c.ExportFile) == "" {
		c.ExportFile = "annotations.json"
	}
}
