// Package capture turns raw pointer input on a fixed-size canvas into
// finalized rectangle and polygon regions.
package capture

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

// Default canvas dimensions.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Tool selects how pointer input is interpreted.
type Tool int

const (
	ToolRectangle Tool = iota
	ToolFreeform
)

func (t Tool) String() string {
	switch t {
	case ToolRectangle:
		return "rectangle"
	case ToolFreeform:
		return "freeform"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// ParseTool converts a tool name as produced by String.
func ParseTool(s string) (Tool, error) {
	switch s {
	case "rectangle":
		return ToolRectangle, nil
	case "freeform":
		return ToolFreeform, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// Button identifies a pointer button using DOM numbering.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// Surface receives a fully composed frame after every state change.
type Surface interface {
	Present(frame *image.RGBA)
}

// SurfaceFunc adapts a function to a Surface.
type SurfaceFunc func(frame *image.RGBA)

// Present implements Surface.
func (f SurfaceFunc) Present(frame *image.RGBA) { f(frame) }

// Engine is the region-capture state machine bound to one drawing surface.
// Pointer methods are meant to be called from a single event loop; image
// decoding completes on a background goroutine and is serialized with the
// pointer methods by mu.
type Engine struct {
	mu sync.Mutex

	width, height int
	tool          Tool
	gesture       gesture

	// Background scaled to the canvas; nil until the first load completes.
	background  image.Image
	sourceImage string
	loadGen     uint64

	ids      region.IDGenerator
	surface  Surface
	onRegion func(region.Region)
	logger   *slog.Logger
}

// New creates an engine for a width x height canvas in rectangle mode.
// Non-positive dimensions fall back to the defaults.
func New(width, height int, logger *slog.Logger) *Engine {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		width:   width,
		height:  height,
		tool:    ToolRectangle,
		gesture: newGesture(ToolRectangle),
		ids:     region.UUIDGenerator{},
		logger:  logger.With("component", "capture"),
	}
}

// OnRegion sets the callback invoked with every finalized region.
func (e *Engine) OnRegion(callback func(region.Region)) {
	e.mu.Lock()
	e.onRegion = callback
	e.mu.Unlock()
}

// SetSurface sets the surface frames are presented to.
func (e *Engine) SetSurface(s Surface) {
	e.mu.Lock()
	e.surface = s
	e.mu.Unlock()
}

// SetIDGenerator replaces the region identifier source.
func (e *Engine) SetIDGenerator(ids region.IDGenerator) {
	if ids == nil {
		return
	}
	e.mu.Lock()
	e.ids = ids
	e.mu.Unlock()
}

// Size returns the canvas dimensions.
func (e *Engine) Size() (width, height int) {
	return e.width, e.height
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// HasImage reports whether a background image is installed.
func (e *Engine) HasImage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background != nil
}

// SourceImage returns the name of the installed image.
func (e *Engine) SourceImage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sourceImage
}

// Background returns the installed image scaled to the canvas, or nil.
func (e *Engine) Background() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// PendingPoints returns a copy of the uncommitted polygon points.
func (e *Engine) PendingPoints() []geometry.Point2D {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g, ok := e.gesture.(*polyGesture); ok {
		return append([]geometry.Point2D(nil), g.points...)
	}
	return nil
}

// Dragging reports whether a rectangle drag is in progress.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.gesture.(*rectGesture)
	return ok && g.dragging()
}

// SetTool switches the capture mode, discarding any uncommitted geometry.
func (e *Engine) SetTool(tool Tool) {
	e.mu.Lock()
	if tool != ToolRectangle && tool != ToolFreeform {
		e.mu.Unlock()
		e.logger.Warn("ignoring unknown tool", "tool", int(tool))
		return
	}
	e.tool = tool
	e.gesture = newGesture(tool)
	frame := e.composeLocked()
	surface := e.surface
	e.mu.Unlock()

	e.logger.Debug("tool changed", "tool", tool.String())
	present(surface, frame)
}

// Redraw composes and presents a full frame.
func (e *Engine) Redraw() {
	e.mu.Lock()
	frame := e.composeLocked()
	surface := e.surface
	e.mu.Unlock()
	present(surface, frame)
}

// PointerDown handles a button press at p.
func (e *Engine) PointerDown(p geometry.Point2D, b Button) {
	e.handle(func() (*region.Region, bool) {
		switch g := e.gesture.(type) {
		case *rectGesture:
			if b != ButtonPrimary {
				return nil, false
			}
			g.begin(p)
			return nil, true
		case *polyGesture:
			switch b {
			case ButtonPrimary:
				return nil, g.add(p)
			case ButtonSecondary:
				if len(g.points) < region.MinPolygonPoints {
					return nil, false
				}
				r, ok := region.NewPolygon(e.ids.NewID(), g.points, e.sourceImage)
				if !ok {
					return nil, false
				}
				g.reset()
				return &r, true
			}
		}
		return nil, false
	})
}

// PointerMove handles pointer motion to p.
func (e *Engine) PointerMove(p geometry.Point2D) {
	e.handle(func() (*region.Region, bool) {
		switch g := e.gesture.(type) {
		case *rectGesture:
			return nil, g.moveTo(p)
		case *polyGesture:
			return nil, g.moveTo(p)
		}
		return nil, false
	})
}

// PointerUp handles a button release at p.
func (e *Engine) PointerUp(p geometry.Point2D, b Button) {
	e.handle(func() (*region.Region, bool) {
		g, ok := e.gesture.(*rectGesture)
		if !ok || b != ButtonPrimary || !g.dragging() {
			return nil, false
		}
		r := region.NewRectangle(e.ids.NewID(), *g.start, p, e.sourceImage)
		g.reset()
		return &r, true
	})
}

// PointerLeave handles the pointer leaving the canvas. A rectangle drag is
// cancelled; pending polygon points are kept.
func (e *Engine) PointerLeave() {
	e.handle(func() (*region.Region, bool) {
		switch g := e.gesture.(type) {
		case *rectGesture:
			if !g.dragging() {
				return nil, false
			}
			g.reset()
			return nil, true
		case *polyGesture:
			return nil, g.clearCursor()
		}
		return nil, false
	})
}

// handle runs step under the lock. Pointer input is ignored until an image
// is installed. When step reports a change the frame is redrawn, and any
// finalized region is emitted before the frame is presented.
func (e *Engine) handle(step func() (*region.Region, bool)) {
	e.mu.Lock()
	if e.background == nil {
		e.mu.Unlock()
		return
	}
	emitted, changed := step()
	if !changed {
		e.mu.Unlock()
		return
	}
	frame := e.composeLocked()
	surface := e.surface
	onRegion := e.onRegion
	e.mu.Unlock()

	if emitted != nil {
		e.logger.Info("region captured",
			"id", emitted.ID, "kind", emitted.Kind.String(), "vertices", len(emitted.Vertices))
		if onRegion != nil {
			onRegion(*emitted)
		}
	}
	present(surface, frame)
}

func present(s Surface, frame *image.RGBA) {
	if s != nil && frame != nil {
		s.Present(frame)
	}
}
