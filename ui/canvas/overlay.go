// Package canvas provides overlay types for the capture canvas.
package canvas

import (
	"region-annotator/internal/annotation"
	"region-annotator/pkg/geometry"
)

// maxLabelRunes bounds the annotation text drawn next to a shape.
const maxLabelRunes = 32

// Overlay holds the persisted annotations drawn over the engine frame.
type Overlay struct {
	Shapes []OverlayShape
}

// OverlayShape represents one annotation outline on the overlay.
type OverlayShape struct {
	ID        string
	Points    []geometry.Point2D // Vertices in canvas coordinates
	Label     string             // Drawn above the shape's bounding box
	Highlight bool               // Hovered in the sidebar or on the canvas
}

// NewOverlay builds an overlay from the visible annotations. The annotation
// whose ID equals hovered is highlighted.
func NewOverlay(annotations []annotation.Annotation, hovered string) *Overlay {
	o := &Overlay{}
	for _, a := range annotations {
		if !a.Visible {
			continue
		}
		o.Shapes = append(o.Shapes, OverlayShape{
			ID:        a.ID,
			Points:    a.Vertices,
			Label:     truncateLabel(a.Text),
			Highlight: hovered != "" && a.ID == hovered,
		})
	}
	return o
}

func truncateLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= maxLabelRunes {
		return text
	}
	return string(runes[:maxLabelRunes-3]) + "..."
}
