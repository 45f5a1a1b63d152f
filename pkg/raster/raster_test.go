package raster

import (
	"image"
	"image/color"
	"testing"

	"region-annotator/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

var (
	green = color.RGBA{G: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func TestLine_ClipsToBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.NotPanics(t, func() {
		Line(img, -5, -5, 20, 20, green, 3)
		Dot(img, geometry.Point2D{}, 4, green)
	})
	assert.Equal(t, green, img.RGBAAt(5, 5))
}

func TestPolyline_Closed(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	pts := []geometry.Point2D{{X: 5, Y: 5}, {X: 25, Y: 5}, {X: 25, Y: 25}}

	Polyline(img, pts, green, 1, false)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(15, 15), "open polyline skips closing edge")

	Polyline(img, pts, green, 1, true)
	assert.Equal(t, green, img.RGBAAt(15, 15))
}

func TestRect_Outline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	Rect(img, geometry.NewRect(5, 5, 10, 10), green, 1)

	assert.Equal(t, green, img.RGBAAt(10, 5))
	assert.Equal(t, green, img.RGBAAt(15, 10))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(10, 10))
}

func TestTint_InsideOnly(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	square := geometry.NewRect(5, 5, 10, 10).Corners()
	Tint(img, square, color.RGBA{R: 128, A: 128})

	assert.Equal(t, uint8(128), img.RGBAAt(10, 10).R)
	assert.Equal(t, uint8(255), img.RGBAAt(10, 10).A)
	assert.Equal(t, black, img.RGBAAt(1, 1))
}

func TestLabel_StaysInsideFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 40))
	box := Label(img, "R1", image.Point{X: 95, Y: 35}, white, black)

	assert.Equal(t, LabelSize("R1"), box.Size())
	assert.True(t, box.In(img.Bounds()))

	var lit int
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if img.RGBAAt(x, y) == white {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "glyph pixels drawn")
}

func TestLabel_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.True(t, Label(img, "", image.Point{}, white, black).Empty())
}
