// Package region defines the immutable shapes produced by a completed
// drawing gesture.
package region

import (
	"encoding/json"
	"fmt"

	"region-annotator/pkg/geometry"
)

// Polygon vertex limits for freeform capture.
const (
	MinPolygonPoints = 3
	MaxPolygonPoints = 10
)

// ShapeKind identifies the geometry of a region.
type ShapeKind int

const (
	Rectangle ShapeKind = iota
	Polygon
)

func (k ShapeKind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Polygon:
		return "polygon"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ParseShapeKind converts the exported name back to a ShapeKind.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "rectangle":
		return Rectangle, nil
	case "polygon":
		return Polygon, nil
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// MarshalJSON encodes the kind as its lowercase name.
func (k ShapeKind) MarshalJSON() ([]byte, error) {
	if k != Rectangle && k != Polygon {
		return nil, fmt.Errorf("invalid shape kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a lowercase kind name.
func (k *ShapeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseShapeKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Region is a finalized shape from one gesture. It is not modified after
// construction; Vertices is owned by the region.
type Region struct {
	ID          string
	Kind        ShapeKind
	Vertices    []geometry.Point2D
	SourceImage string
}

// NewRectangle builds a rectangle region from the two drag endpoints.
// Vertices are normalized to top-left, top-right, bottom-right, bottom-left
// regardless of drag direction.
func NewRectangle(id string, start, end geometry.Point2D, sourceImage string) Region {
	return Region{
		ID:          id,
		Kind:        Rectangle,
		Vertices:    geometry.RectFromCorners(start, end).Corners(),
		SourceImage: sourceImage,
	}
}

// NewPolygon builds a polygon region from clicked points, ordered by
// ascending angle around their centroid. It returns false when the point
// count is outside [MinPolygonPoints, MaxPolygonPoints].
func NewPolygon(id string, points []geometry.Point2D, sourceImage string) (Region, bool) {
	if len(points) < MinPolygonPoints || len(points) > MaxPolygonPoints {
		return Region{}, false
	}
	return Region{
		ID:          id,
		Kind:        Polygon,
		Vertices:    geometry.SortByAngle(points),
		SourceImage: sourceImage,
	}, true
}

// Bounds returns the axis-aligned bounding box of the region.
func (r Region) Bounds() geometry.Rect {
	return geometry.BoundingBox(r.Vertices)
}

// Contains reports whether p lies inside the region.
func (r Region) Contains(p geometry.Point2D) bool {
	if r.Kind == Rectangle {
		return r.Bounds().Contains(p)
	}
	return geometry.PointInPolygon(p, r.Vertices)
}
