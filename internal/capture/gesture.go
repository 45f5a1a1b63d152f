package capture

import (
	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

// gesture is the mode-specific in-progress state. Exactly one of
// *rectGesture or *polyGesture is active, matching the engine's tool.
type gesture interface {
	reset()
}

func newGesture(tool Tool) gesture {
	if tool == ToolFreeform {
		return &polyGesture{}
	}
	return &rectGesture{}
}

// rectGesture tracks a rectangle drag. start is nil while idle.
type rectGesture struct {
	start   *geometry.Point2D
	current geometry.Point2D
}

func (g *rectGesture) dragging() bool { return g.start != nil }

func (g *rectGesture) begin(p geometry.Point2D) {
	start := p
	g.start = &start
	g.current = p
}

func (g *rectGesture) moveTo(p geometry.Point2D) bool {
	if g.start == nil {
		return false
	}
	g.current = p
	return true
}

// preview returns the live box between the start point and the pointer.
func (g *rectGesture) preview() (geometry.Rect, bool) {
	if g.start == nil {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(*g.start, g.current), true
}

func (g *rectGesture) reset() {
	g.start = nil
	g.current = geometry.Point2D{}
}

// polyGesture collects up to region.MaxPolygonPoints clicked points. cursor
// is the rubber-band end, nil when the pointer is outside the canvas.
type polyGesture struct {
	points []geometry.Point2D
	cursor *geometry.Point2D
}

func (g *polyGesture) add(p geometry.Point2D) bool {
	if len(g.points) >= region.MaxPolygonPoints {
		return false
	}
	g.points = append(g.points, p)
	return true
}

func (g *polyGesture) moveTo(p geometry.Point2D) bool {
	if len(g.points) == 0 {
		return false
	}
	cursor := p
	g.cursor = &cursor
	return true
}

func (g *polyGesture) clearCursor() bool {
	if g.cursor == nil {
		return false
	}
	g.cursor = nil
	return true
}

func (g *polyGesture) reset() {
	g.points = nil
	g.cursor = nil
}
