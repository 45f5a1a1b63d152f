package capture

import (
	"image"
	"image/draw"

	"region-annotator/pkg/colorutil"
	"region-annotator/pkg/raster"
)

const (
	markerRadius  = 4
	lineThickness = 2
)

// composeLocked renders the background followed by the active gesture.
// Completed regions are never drawn here. Caller holds e.mu.
func (e *Engine) composeLocked() *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	if e.background != nil {
		draw.Draw(frame, frame.Bounds(), e.background, e.background.Bounds().Min, draw.Src)
	} else {
		draw.Draw(frame, frame.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)
	}

	col := colorutil.Gesture
	switch g := e.gesture.(type) {
	case *rectGesture:
		if box, ok := g.preview(); ok {
			raster.Rect(frame, box, col, lineThickness)
		}
	case *polyGesture:
		raster.Polyline(frame, g.points, col, lineThickness, false)
		for _, p := range g.points {
			raster.Dot(frame, p, markerRadius, col)
		}
		if g.cursor != nil && len(g.points) > 0 {
			raster.Segment(frame, g.points[len(g.points)-1], *g.cursor, col, lineThickness)
		}
	}
	return frame
}
