// Package app ties region capture to the annotation collection and exposes
// the host callbacks used by the user interface.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"region-annotator/internal/annotation"
	"region-annotator/internal/capture"
	"region-annotator/internal/config"
	"region-annotator/internal/export"
	"region-annotator/internal/ocr"
	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

var (
	// ErrOCRUnavailable is returned by SuggestText when no recognizer is set.
	ErrOCRUnavailable = errors.New("text recognition is not available")

	// ErrSourceMismatch is returned by SuggestText when the annotation was
	// drawn on a different image than the one installed.
	ErrSourceMismatch = errors.New("annotation belongs to another image")
)

// State holds one annotation session: the capture engine, the annotation
// collection and the hover selection shared by canvas and sidebar.
type State struct {
	mu sync.RWMutex

	Engine *capture.Engine
	Store  *annotation.Store

	recognizer ocr.Recognizer
	logger     *slog.Logger

	hovered    string
	exportPath string

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageLoadFailed
	EventToolChanged
	EventRegionCaptured
	EventAnnotationsChanged
	EventHoverChanged
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a session configured by cfg. A nil cfg uses defaults.
func NewState(cfg *config.Config, logger *slog.Logger) *State {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &State{
		Engine:     capture.New(cfg.CanvasWidth, cfg.CanvasHeight, logger),
		Store:      annotation.NewStore(region.UUIDGenerator{}),
		logger:     logger.With("component", "session"),
		exportPath: cfg.ExportFile,
		listeners:  make(map[EventType][]EventListener),
	}
	s.Store.SetPlaceholder(cfg.Placeholder)
	s.Engine.OnRegion(s.onRegion)
	s.Store.OnChange(func() { s.Emit(EventAnnotationsChanged, s.Store.Len()) })
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetRecognizer installs the OCR backend used by SuggestText.
func (s *State) SetRecognizer(r ocr.Recognizer) {
	s.mu.Lock()
	s.recognizer = r
	s.mu.Unlock()
}

// HasRecognizer reports whether SuggestText can run.
func (s *State) HasRecognizer() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recognizer != nil
}

// onRegion wraps a finalized region into a new annotation.
func (s *State) onRegion(r region.Region) {
	a := s.Store.Create(r)
	s.logger.Info("annotation created", "id", a.ID, "kind", a.Kind.String())
	s.Emit(EventRegionCaptured, a)
}

// SetTool switches the capture tool.
func (s *State) SetTool(tool capture.Tool) {
	s.Engine.SetTool(tool)
	s.Emit(EventToolChanged, tool)
}

// LoadImage starts decoding data as the new background. The returned
// channel reports the outcome; listeners receive EventImageLoaded with the
// image name, or EventImageLoadFailed with the error. Superseded loads emit
// nothing.
func (s *State) LoadImage(name string, data []byte) <-chan error {
	done := make(chan error, 1)
	result := s.Engine.LoadImage(name, data)
	go func() {
		defer close(done)
		err := <-result
		switch {
		case err == nil:
			s.Emit(EventImageLoaded, name)
		case errors.Is(err, capture.ErrSuperseded):
		default:
			s.logger.Warn("image load failed", "name", name, "error", err)
			s.Emit(EventImageLoadFailed, err)
		}
		done <- err
	}()
	return done
}

// LoadImageFile reads path and loads it as the new background.
func (s *State) LoadImageFile(path string) (<-chan error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return s.LoadImage(filepath.Base(path), data), nil
}

// EditAnnotation replaces an annotation's text.
func (s *State) EditAnnotation(id, text string) {
	if s.Store.Edit(id, text) {
		s.logger.Debug("annotation edited", "id", id)
	}
}

// DeleteAnnotation removes an annotation, clearing the hover if it pointed
// at it.
func (s *State) DeleteAnnotation(id string) {
	if !s.Store.Delete(id) {
		return
	}
	s.logger.Debug("annotation deleted", "id", id)
	if s.Hovered() == id {
		s.SetHovered("")
	}
}

// ToggleVisibility flips whether an annotation is drawn.
func (s *State) ToggleVisibility(id string) {
	s.Store.ToggleVisibility(id)
}

// SetHovered marks the annotation highlighted on the canvas; "" clears it.
func (s *State) SetHovered(id string) {
	s.mu.Lock()
	if s.hovered == id {
		s.mu.Unlock()
		return
	}
	s.hovered = id
	s.mu.Unlock()
	s.Emit(EventHoverChanged, id)
}

// Hovered returns the highlighted annotation ID.
func (s *State) Hovered() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hovered
}

// HoverAt highlights the topmost visible annotation under p.
func (s *State) HoverAt(p geometry.Point2D) {
	a, ok := s.Store.Find(p)
	if !ok {
		s.SetHovered("")
		return
	}
	s.SetHovered(a.ID)
}

// ExportPath returns the path of the last export, or the configured default.
func (s *State) ExportPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exportPath
}

// SetExportPath sets the path used by Export, typically restored from
// preferences.
func (s *State) SetExportPath(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	s.exportPath = path
	s.mu.Unlock()
}

// Export writes every annotation to the current export path.
func (s *State) Export() (string, error) {
	return s.ExportTo(s.ExportPath())
}

// ExportTo writes every annotation to path as JSON.
func (s *State) ExportTo(path string) (string, error) {
	written, err := export.WriteFile(path, s.Store)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.exportPath = written
	s.mu.Unlock()

	s.logger.Info("annotations exported", "path", written, "count", s.Store.Len())
	s.Emit(EventExported, written)
	return written, nil
}

// SuggestText runs OCR over the annotation's bounding box on the installed
// background and returns the recognized text. The annotation itself is not
// changed; callers commit the text with EditAnnotation.
func (s *State) SuggestText(id string) (string, error) {
	s.mu.RLock()
	recognizer := s.recognizer
	s.mu.RUnlock()
	if recognizer == nil {
		return "", ErrOCRUnavailable
	}

	a, ok := s.Store.Get(id)
	if !ok {
		return "", fmt.Errorf("annotation %s not found", id)
	}
	if current := s.Engine.SourceImage(); a.SourceImage != current {
		return "", fmt.Errorf("annotation %s on %q, showing %q: %w", id, a.SourceImage, current, ErrSourceMismatch)
	}
	text, err := recognizer.RecognizeRegion(s.Engine.Background(), a.Bounds())
	if err != nil {
		return "", fmt.Errorf("recognize annotation %s: %w", id, err)
	}
	return text, nil
}

// SeedSamples adds the two sample rectangles shown on a fresh session.
func (s *State) SeedSamples() {
	samples := []struct {
		text       string
		start, end geometry.Point2D
	}{
		{"Sample annotation 1", geometry.Point2D{X: 100, Y: 100}, geometry.Point2D{X: 300, Y: 250}},
		{"Sample annotation 2", geometry.Point2D{X: 300, Y: 200}, geometry.Point2D{X: 450, Y: 300}},
	}
	for _, sm := range samples {
		s.Store.CreateShape(region.Rectangle, []geometry.Point2D{sm.start, sm.end},
			annotation.WithText(sm.text), annotation.WithSourceImage("example.jpg"))
	}
}
