package canvas

import (
	"image"
	"strings"
	"testing"

	"region-annotator/internal/annotation"
	"region-annotator/internal/region"
	"region-annotator/pkg/colorutil"
	"region-annotator/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectAnnotation(id string, r geometry.Rect, visible bool) annotation.Annotation {
	return annotation.Annotation{
		ID:       id,
		Text:     "label " + id,
		Kind:     region.Rectangle,
		Vertices: r.Corners(),
		Visible:  visible,
	}
}

func TestNewOverlay_SkipsHiddenAndMarksHover(t *testing.T) {
	o := NewOverlay([]annotation.Annotation{
		rectAnnotation("a", geometry.NewRect(0, 0, 10, 10), true),
		rectAnnotation("b", geometry.NewRect(5, 5, 10, 10), false),
		rectAnnotation("c", geometry.NewRect(20, 20, 10, 10), true),
	}, "c")

	require.Len(t, o.Shapes, 2)
	assert.Equal(t, "a", o.Shapes[0].ID)
	assert.False(t, o.Shapes[0].Highlight)
	assert.Equal(t, "c", o.Shapes[1].ID)
	assert.True(t, o.Shapes[1].Highlight)
}

func TestNewOverlay_NoHover(t *testing.T) {
	o := NewOverlay([]annotation.Annotation{rectAnnotation("a", geometry.NewRect(0, 0, 1, 1), true)}, "")
	assert.False(t, o.Shapes[0].Highlight)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short"))
	long := strings.Repeat("x", 40)
	got := truncateLabel(long)
	assert.Len(t, []rune(got), maxLabelRunes)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDrawOverlay_HighlightColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	drawOverlay(img, &Overlay{Shapes: []OverlayShape{
		{ID: "a", Points: geometry.NewRect(10, 40, 30, 30).Corners()},
		{ID: "b", Points: geometry.NewRect(60, 40, 30, 30).Corners(), Highlight: true},
	}})

	assert.Equal(t, colorutil.Cyan, img.RGBAAt(25, 40))
	assert.Equal(t, colorutil.Yellow, img.RGBAAt(75, 40))
	assert.NotZero(t, img.RGBAAt(75, 55).R, "highlighted interior is tinted")
	assert.Zero(t, img.RGBAAt(25, 55).R, "plain interior untouched")
}

func TestDrawOverlay_Nil(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.NotPanics(t, func() { drawOverlay(img, nil) })
}
