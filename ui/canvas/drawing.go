package canvas

import (
	"image"
	"image/color"

	"region-annotator/pkg/colorutil"
	"region-annotator/pkg/geometry"
	"region-annotator/pkg/raster"
)

const (
	outlineThickness   = 2
	highlightThickness = 3
	highlightAlpha     = 60
)

// drawOverlay draws every shape outline with its label. Highlighted shapes
// are tinted and drawn last so they stay on top.
func drawOverlay(output *image.RGBA, overlay *Overlay) {
	if overlay == nil {
		return
	}
	var highlighted []OverlayShape
	for _, shape := range overlay.Shapes {
		if shape.Highlight {
			highlighted = append(highlighted, shape)
			continue
		}
		drawShape(output, shape)
	}
	for _, shape := range highlighted {
		drawShape(output, shape)
	}
}

func drawShape(output *image.RGBA, shape OverlayShape) {
	col, thickness := colorutil.Cyan, outlineThickness
	if shape.Highlight {
		col, thickness = colorutil.Yellow, highlightThickness
		raster.Tint(output, shape.Points, colorutil.WithAlpha(colorutil.Yellow, highlightAlpha))
	}
	raster.Polyline(output, shape.Points, col, thickness, true)
	drawShapeLabel(output, shape, col)
}

// drawShapeLabel places the label just above the top-left of the shape's
// bounding box, or inside it when there is no room above.
func drawShapeLabel(output *image.RGBA, shape OverlayShape, bg color.RGBA) {
	if shape.Label == "" || len(shape.Points) == 0 {
		return
	}
	box := geometry.BoundingBox(shape.Points)
	size := raster.LabelSize(shape.Label)
	at := image.Point{X: int(box.X), Y: int(box.Y) - size.Y}
	if at.Y < output.Bounds().Min.Y {
		at.Y = int(box.Y) + highlightThickness
	}
	raster.Label(output, shape.Label, at, colorutil.Black, bg)
}
