// Package annotation holds the ordered, in-memory collection of annotations
// built from captured regions.
package annotation

import (
	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

// DefaultText is the placeholder text given to new annotations.
const DefaultText = "New annotation"

// Annotation is a captured shape with user-authored text. Only Text and
// Visible change after creation. Field order matches the export format.
type Annotation struct {
	ID          string             `json:"id"`
	Text        string             `json:"text"`
	SourceImage string             `json:"imageFile"`
	Kind        region.ShapeKind   `json:"type"`
	Vertices    []geometry.Point2D `json:"coordinates"`
	Visible     bool               `json:"visible"`
}

// Region returns the annotation's shape as a region.
func (a Annotation) Region() region.Region {
	return region.Region{
		ID:          a.ID,
		Kind:        a.Kind,
		Vertices:    a.Vertices,
		SourceImage: a.SourceImage,
	}
}

// Bounds returns the bounding box of the annotation's shape.
func (a Annotation) Bounds() geometry.Rect {
	return geometry.BoundingBox(a.Vertices)
}

func (a Annotation) clone() Annotation {
	a.Vertices = append([]geometry.Point2D(nil), a.Vertices...)
	return a
}
