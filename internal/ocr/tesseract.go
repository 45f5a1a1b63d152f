// Package ocr suggests annotation text by running Tesseract over the image
// area covered by a region.
package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"region-annotator/pkg/geometry"
)

// ErrEmptyRegion is returned when a region does not overlap the image.
var ErrEmptyRegion = errors.New("region does not overlap the image")

// minOCRDim is the smallest crop edge passed to Tesseract; smaller crops are
// upscaled first.
const minOCRDim = 150

// Recognizer extracts text from part of an image.
type Recognizer interface {
	RecognizeRegion(img image.Image, bounds geometry.Rect) (string, error)
}

// Engine provides OCR using Tesseract. A gosseract client is not safe for
// concurrent use, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

// NewEngine creates an engine for the given Tesseract language code.
func NewEngine(language string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &Engine{client: client, logger: logger.With("component", "ocr")}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// RecognizeRegion performs OCR on the part of img inside bounds and returns
// the recognized text with whitespace collapsed.
func (e *Engine) RecognizeRegion(img image.Image, bounds geometry.Rect) (string, error) {
	crop, err := prepareRegion(img, bounds)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return "", fmt.Errorf("encode region: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", errors.New("OCR engine closed")
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	text = normalizeText(text)
	e.logger.Debug("region recognized", "bounds", bounds, "chars", len(text))
	return text, nil
}

// prepareRegion crops bounds out of img, converts it to grayscale and
// upscales small crops so Tesseract has enough pixels per glyph.
func prepareRegion(img image.Image, bounds geometry.Rect) (image.Image, error) {
	if img == nil || bounds.Empty() {
		return nil, ErrEmptyRegion
	}
	rect := image.Rect(
		int(bounds.X), int(bounds.Y),
		int(bounds.X+bounds.Width+0.5), int(bounds.Y+bounds.Height+0.5),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}

	crop := imaging.Grayscale(imaging.Crop(img, rect))
	if minDim := min(rect.Dx(), rect.Dy()); minDim < minOCRDim {
		scale := float64(minOCRDim) / float64(minDim)
		w := int(float64(rect.Dx())*scale + 0.5)
		h := int(float64(rect.Dy())*scale + 0.5)
		crop = imaging.Resize(crop, w, h, imaging.CatmullRom)
	}
	return crop, nil
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
