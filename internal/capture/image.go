package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrSuperseded is reported by a load whose result was dropped because a
// newer load started before it finished.
var ErrSuperseded = errors.New("image load superseded by a newer load")

// ErrNoImageData is reported when LoadImage is given no bytes.
var ErrNoImageData = errors.New("no image data")

// LoadImage decodes data in the background and installs it as the canvas
// background, replacing any previous image. Loads are last-write-wins: only
// the most recently started load is installed. Installing an image cancels
// any in-progress gesture and triggers exactly one redraw.
//
// The returned channel receives nil once the image is installed, or the
// reason it was not, and is then closed.
func (e *Engine) LoadImage(name string, data []byte) <-chan error {
	done := make(chan error, 1)

	e.mu.Lock()
	e.loadGen++
	gen := e.loadGen
	e.mu.Unlock()

	go func() {
		defer close(done)

		if len(data) == 0 {
			done <- fmt.Errorf("load image %q: %w", name, ErrNoImageData)
			return
		}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			e.logger.Warn("image decode failed", "name", name, "error", err)
			done <- fmt.Errorf("decode image %q: %w", name, err)
			return
		}

		if !e.install(gen, name, img) {
			e.logger.Debug("dropping superseded image load", "name", name)
			done <- ErrSuperseded
			return
		}
		b := img.Bounds()
		e.logger.Info("image loaded", "name", name, "format", format, "width", b.Dx(), "height", b.Dy())
		done <- nil
	}()

	return done
}

// SetImage installs an already decoded image synchronously. It supersedes
// any load still in flight.
func (e *Engine) SetImage(name string, img image.Image) {
	if img == nil {
		return
	}
	e.mu.Lock()
	e.loadGen++
	gen := e.loadGen
	e.mu.Unlock()
	e.install(gen, name, img)
}

// install scales img to the canvas and makes it the background if gen is
// still the latest load. It reports whether the image was installed.
func (e *Engine) install(gen uint64, name string, img image.Image) bool {
	scaled := imaging.Resize(img, e.width, e.height, imaging.Lanczos)

	e.mu.Lock()
	if gen != e.loadGen {
		e.mu.Unlock()
		return false
	}
	e.background = scaled
	e.sourceImage = name
	e.gesture = newGesture(e.tool)
	frame := e.composeLocked()
	surface := e.surface
	e.mu.Unlock()

	present(surface, frame)
	return true
}
