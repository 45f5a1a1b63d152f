package geometry

import (
	"math"
	"sort"
)

// AngleFrom returns the angle of p around center as atan2(dy, dx).
// In screen coordinates (y down) ascending angles run clockwise.
func AngleFrom(center, p Point2D) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// SortByAngle returns a copy of points ordered by ascending angle around
// their centroid. Points with equal angles keep their input order.
func SortByAngle(points []Point2D) []Point2D {
	if len(points) < 2 {
		return append([]Point2D(nil), points...)
	}

	center := Centroid(points)
	type polar struct {
		p     Point2D
		angle float64
	}
	ps := make([]polar, len(points))
	for i, p := range points {
		ps[i] = polar{p: p, angle: AngleFrom(center, p)}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].angle < ps[j].angle
	})

	sorted := make([]Point2D, len(ps))
	for i, pp := range ps {
		sorted[i] = pp.p
	}
	return sorted
}

// IsAngleSorted reports whether points are in non-decreasing angular order
// around their centroid.
func IsAngleSorted(points []Point2D) bool {
	if len(points) < 2 {
		return true
	}
	center := Centroid(points)
	prev := AngleFrom(center, points[0])
	for _, p := range points[1:] {
		a := AngleFrom(center, p)
		if a < prev {
			return false
		}
		prev = a
	}
	return true
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}
