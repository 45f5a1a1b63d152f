// Package raster draws markers, outlines and labels into RGBA frames.
// All drawing is clipped to the destination bounds.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"region-annotator/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelPadding is the gap between label text and its background box.
const LabelPadding = 2

// Line draws a line between two points using Bresenham's algorithm.
func Line(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if (image.Point{X: px, Y: py}).In(bounds) {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Segment draws a line between two points.
func Segment(output *image.RGBA, a, b geometry.Point2D, col color.RGBA, thickness int) {
	Line(output, int(a.X), int(a.Y), int(b.X), int(b.Y), col, thickness)
}

// Polyline connects consecutive points; closed also joins last to first.
func Polyline(output *image.RGBA, points []geometry.Point2D, col color.RGBA, thickness int, closed bool) {
	for i := 1; i < len(points); i++ {
		Segment(output, points[i-1], points[i], col, thickness)
	}
	if closed && len(points) > 2 {
		Segment(output, points[len(points)-1], points[0], col, thickness)
	}
}

// Rect outlines r.
func Rect(output *image.RGBA, r geometry.Rect, col color.RGBA, thickness int) {
	Polyline(output, r.Corners(), col, thickness, true)
}

// Dot draws a filled circle centered on p.
func Dot(output *image.RGBA, p geometry.Point2D, radius float64, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	for y := int(p.Y - radius - 1); y <= int(p.Y+radius+1); y++ {
		for x := int(p.X - radius - 1); x <= int(p.X+radius+1); x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			dx := float64(x) - p.X
			dy := float64(y) - p.Y
			if dx*dx+dy*dy <= r2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// Tint blends a premultiplied col over every pixel inside polygon.
func Tint(output *image.RGBA, polygon []geometry.Point2D, col color.RGBA) {
	if len(polygon) < 3 || col.A == 0 {
		return
	}
	box := geometry.BoundingBox(polygon)
	area := image.Rect(int(box.X), int(box.Y), int(box.X+box.Width)+1, int(box.Y+box.Height)+1).
		Intersect(output.Bounds())

	inv := uint32(255 - col.A)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			p := geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if !geometry.PointInPolygon(p, polygon) {
				continue
			}
			d := output.RGBAAt(x, y)
			output.SetRGBA(x, y, color.RGBA{
				R: uint8(uint32(col.R) + uint32(d.R)*inv/255),
				G: uint8(uint32(col.G) + uint32(d.G)*inv/255),
				B: uint8(uint32(col.B) + uint32(d.B)*inv/255),
				A: uint8(uint32(col.A) + uint32(d.A)*inv/255),
			})
		}
	}
}

// LabelSize returns the pixel size of text drawn by Label, padding included.
func LabelSize(text string) image.Point {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	return image.Point{X: w + 2*LabelPadding, Y: face.Height + 2*LabelPadding}
}

// Label draws text on a filled box whose top-left corner is at. The box is
// shifted inside the frame when it would overflow an edge.
func Label(output *image.RGBA, text string, at image.Point, fg, bg color.RGBA) image.Rectangle {
	if text == "" {
		return image.Rectangle{}
	}
	size := LabelSize(text)
	bounds := output.Bounds()
	if at.X+size.X > bounds.Max.X {
		at.X = bounds.Max.X - size.X
	}
	if at.Y+size.Y > bounds.Max.Y {
		at.Y = bounds.Max.Y - size.Y
	}
	if at.X < bounds.Min.X {
		at.X = bounds.Min.X
	}
	if at.Y < bounds.Min.Y {
		at.Y = bounds.Min.Y
	}

	box := image.Rectangle{Min: at, Max: at.Add(size)}.Intersect(bounds)
	draw.Draw(output, box, image.NewUniform(bg), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(at.X+LabelPadding, at.Y+LabelPadding+face.Ascent),
	}
	d.DrawString(text)
	return box
}
