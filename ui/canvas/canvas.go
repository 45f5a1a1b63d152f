// Package canvas provides the fixed-size capture canvas widget.
package canvas

import (
	"image"
	"image/draw"
	"sync"

	"region-annotator/internal/capture"
	"region-annotator/pkg/colorutil"
	"region-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CaptureCanvas displays the frames presented by a capture engine and routes
// desktop mouse events back into it.
type CaptureCanvas struct {
	widget.BaseWidget

	engine *capture.Engine
	raster *fynecanvas.Raster
	width  int
	height int

	mu      sync.Mutex
	frame   *image.RGBA
	overlay *Overlay

	// Callbacks
	onHover func(p geometry.Point2D, inside bool)
}

var (
	_ capture.Surface   = (*CaptureCanvas)(nil)
	_ desktop.Mouseable = (*CaptureCanvas)(nil)
	_ desktop.Hoverable = (*CaptureCanvas)(nil)
)

// NewCaptureCanvas creates a canvas sized to the engine and registers it as
// the engine's surface.
func NewCaptureCanvas(engine *capture.Engine) *CaptureCanvas {
	w, h := engine.Size()
	c := &CaptureCanvas{
		engine: engine,
		width:  w,
		height: h,
	}

	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.raster.SetMinSize(fyne.NewSize(float32(w), float32(h)))

	c.ExtendBaseWidget(c)
	engine.SetSurface(c)
	return c
}

// CreateRenderer implements fyne.Widget.
func (c *CaptureCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// MinSize keeps the canvas at the engine size.
func (c *CaptureCanvas) MinSize() fyne.Size {
	return fyne.NewSize(float32(c.width), float32(c.height))
}

// Present implements capture.Surface.
func (c *CaptureCanvas) Present(frame *image.RGBA) {
	c.mu.Lock()
	c.frame = frame
	c.mu.Unlock()
	c.raster.Refresh()
}

// SetOverlay replaces the persisted annotation overlay.
func (c *CaptureCanvas) SetOverlay(overlay *Overlay) {
	c.mu.Lock()
	c.overlay = overlay
	c.mu.Unlock()
	c.raster.Refresh()
}

// OnHover sets the callback for pointer movement over the canvas. inside is
// false once the pointer leaves.
func (c *CaptureCanvas) OnHover(callback func(p geometry.Point2D, inside bool)) {
	c.onHover = callback
}

// Rendered returns the last frame with the overlay applied.
func (c *CaptureCanvas) Rendered() *image.RGBA {
	return c.compose()
}

// MouseDown implements desktop.Mouseable.
func (c *CaptureCanvas) MouseDown(ev *desktop.MouseEvent) {
	if b, ok := engineButton(ev.Button); ok {
		c.engine.PointerDown(c.toCanvas(ev.Position), b)
	}
}

// MouseUp implements desktop.Mouseable.
func (c *CaptureCanvas) MouseUp(ev *desktop.MouseEvent) {
	if b, ok := engineButton(ev.Button); ok {
		c.engine.PointerUp(c.toCanvas(ev.Position), b)
	}
}

// MouseIn implements desktop.Hoverable.
func (c *CaptureCanvas) MouseIn(ev *desktop.MouseEvent) {
	c.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (c *CaptureCanvas) MouseMoved(ev *desktop.MouseEvent) {
	p := c.toCanvas(ev.Position)
	c.engine.PointerMove(p)
	if c.onHover != nil {
		c.onHover(p, true)
	}
}

// MouseOut implements desktop.Hoverable.
func (c *CaptureCanvas) MouseOut() {
	c.engine.PointerLeave()
	if c.onHover != nil {
		c.onHover(geometry.Point2D{}, false)
	}
}

// toCanvas converts a widget-relative position to canvas pixels.
func (c *CaptureCanvas) toCanvas(pos fyne.Position) geometry.Point2D {
	return scalePosition(pos, c.Size(), c.width, c.height)
}

// scalePosition maps pos within a widget of the given size onto a w x h
// pixel canvas. A zero-sized widget maps 1:1.
func scalePosition(pos fyne.Position, size fyne.Size, w, h int) geometry.Point2D {
	x, y := float64(pos.X), float64(pos.Y)
	if size.Width > 0 {
		x = x * float64(w) / float64(size.Width)
	}
	if size.Height > 0 {
		y = y * float64(h) / float64(size.Height)
	}
	return geometry.Point2D{X: x, Y: y}
}

// engineButton converts a desktop mouse button to the engine numbering.
func engineButton(b desktop.MouseButton) (capture.Button, bool) {
	switch b {
	case desktop.MouseButtonPrimary:
		return capture.ButtonPrimary, true
	case desktop.MouseButtonSecondary:
		return capture.ButtonSecondary, true
	case desktop.MouseButtonTertiary:
		return capture.ButtonMiddle, true
	default:
		return 0, false
	}
}

// draw is the raster drawing function.
func (c *CaptureCanvas) draw(w, h int) image.Image {
	return c.compose()
}

// compose copies the engine frame and draws the overlay on the copy.
func (c *CaptureCanvas) compose() *image.RGBA {
	c.mu.Lock()
	frame, overlay := c.frame, c.overlay
	c.mu.Unlock()

	output := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	if frame == nil {
		draw.Draw(output, output.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)
		return output
	}
	draw.Draw(output, output.Bounds(), frame, frame.Bounds().Min, draw.Src)
	drawOverlay(output, overlay)
	return output
}
