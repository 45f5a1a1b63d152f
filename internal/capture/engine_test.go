package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

type recordingSurface struct {
	mu     sync.Mutex
	frames int
	last   *image.RGBA
}

func (s *recordingSurface) Present(frame *image.RGBA) {
	s.mu.Lock()
	s.frames++
	s.last = frame
	s.mu.Unlock()
}

func (s *recordingSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

type harness struct {
	engine  *Engine
	surface *recordingSurface
	regions []region.Region
}

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func waitLoad(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image load")
		return nil
	}
}

// newHarness returns an engine with a loaded image and counter ids.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{surface: &recordingSurface{}}
	h.engine = New(0, 0, nil)
	h.engine.SetSurface(h.surface)
	h.engine.SetIDGenerator(&region.CounterGenerator{})
	h.engine.OnRegion(func(r region.Region) { h.regions = append(h.regions, r) })
	require.NoError(t, waitLoad(t, h.engine.LoadImage("photo.png", testPNG(t, 40, 30))))
	return h
}

func (h *harness) drag(from, to geometry.Point2D) {
	h.engine.PointerDown(from, ButtonPrimary)
	h.engine.PointerMove(to)
	h.engine.PointerUp(to, ButtonPrimary)
}

func (h *harness) click(points ...geometry.Point2D) {
	for _, p := range points {
		h.engine.PointerDown(p, ButtonPrimary)
		h.engine.PointerUp(p, ButtonPrimary)
	}
}

func TestNew_Defaults(t *testing.T) {
	e := New(0, -1, nil)
	w, h := e.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	assert.Equal(t, ToolRectangle, e.Tool())
	assert.False(t, e.HasImage())
}

func TestRectangle_AnyDragDirection(t *testing.T) {
	cases := []struct {
		name       string
		start, end geometry.Point2D
	}{
		{"down-right", pt(100, 100), pt(300, 250)},
		{"up-left", pt(300, 250), pt(100, 100)},
		{"down-left", pt(300, 100), pt(100, 250)},
		{"up-right", pt(100, 250), pt(300, 100)},
	}
	want := []geometry.Point2D{pt(100, 100), pt(300, 100), pt(300, 250), pt(100, 250)}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.drag(tc.start, tc.end)

			require.Len(t, h.regions, 1)
			r := h.regions[0]
			assert.Equal(t, region.Rectangle, r.Kind)
			assert.Equal(t, "photo.png", r.SourceImage)
			assert.Equal(t, "1", r.ID)
			if diff := cmp.Diff(want, r.Vertices); diff != "" {
				t.Fatalf("vertices mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, h.engine.Dragging())
		})
	}
}

func TestRectangle_ZeroSizeClick(t *testing.T) {
	h := newHarness(t)
	h.click(pt(5, 5))

	require.Len(t, h.regions, 1)
	assert.Equal(t, []geometry.Point2D{pt(5, 5), pt(5, 5), pt(5, 5), pt(5, 5)}, h.regions[0].Vertices)
}

func TestRectangle_LeaveCancelsDrag(t *testing.T) {
	h := newHarness(t)
	h.engine.PointerDown(pt(10, 10), ButtonPrimary)
	h.engine.PointerMove(pt(50, 50))
	require.True(t, h.engine.Dragging())

	h.engine.PointerLeave()
	assert.False(t, h.engine.Dragging())

	h.engine.PointerUp(pt(60, 60), ButtonPrimary)
	assert.Empty(t, h.regions)
}

func TestRectangle_SecondaryButtonIgnored(t *testing.T) {
	h := newHarness(t)
	before := h.surface.count()

	h.engine.PointerDown(pt(10, 10), ButtonSecondary)
	h.engine.PointerUp(pt(20, 20), ButtonSecondary)

	assert.False(t, h.engine.Dragging())
	assert.Empty(t, h.regions)
	assert.Equal(t, before, h.surface.count())
}

func TestRectangle_MoveWithoutDragIsNoop(t *testing.T) {
	h := newHarness(t)
	before := h.surface.count()
	h.engine.PointerMove(pt(1, 1))
	h.engine.PointerLeave()
	assert.Equal(t, before, h.surface.count())
}

func TestFreeform_SquareCapture(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)

	h.click(pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10))
	assert.Len(t, h.engine.PendingPoints(), 4)

	h.engine.PointerDown(pt(5, 5), ButtonSecondary)

	require.Len(t, h.regions, 1)
	r := h.regions[0]
	assert.Equal(t, region.Polygon, r.Kind)
	want := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	if diff := cmp.Diff(want, r.Vertices); diff != "" {
		t.Fatalf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, h.engine.PendingPoints())
}

func TestFreeform_ArbitraryClickOrderIsSorted(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)

	in := []geometry.Point2D{pt(50, 80), pt(10, 10), pt(90, 30), pt(40, 5), pt(20, 60)}
	h.click(in...)
	h.engine.PointerDown(pt(0, 0), ButtonSecondary)

	require.Len(t, h.regions, 1)
	got := h.regions[0].Vertices
	assert.ElementsMatch(t, in, got)
	assert.True(t, geometry.IsAngleSorted(got))
	assert.Equal(t, got, geometry.SortByAngle(got))
}

func TestFreeform_CloseWithTwoPointsIsNoop(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)
	h.click(pt(1, 1), pt(20, 20))

	h.engine.PointerDown(pt(3, 3), ButtonSecondary)

	assert.Empty(t, h.regions)
	assert.Len(t, h.engine.PendingPoints(), 2)
}

func TestFreeform_RejectedCloseKeepsIDSequence(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)
	h.click(pt(1, 1), pt(20, 1))
	h.engine.PointerDown(pt(20, 1), ButtonSecondary)
	h.engine.PointerDown(pt(20, 1), ButtonSecondary)

	h.click(pt(10, 20))
	h.engine.PointerDown(pt(10, 20), ButtonSecondary)

	require.Len(t, h.regions, 1)
	assert.Equal(t, "1", h.regions[0].ID)
}

func TestFreeform_TenPointCap(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)
	for i := 0; i < region.MaxPolygonPoints; i++ {
		h.click(pt(float64(i), float64(i*i%7)))
	}
	require.Len(t, h.engine.PendingPoints(), 10)

	before := h.surface.count()
	h.engine.PointerDown(pt(99, 99), ButtonPrimary)
	assert.Len(t, h.engine.PendingPoints(), 10)
	assert.Equal(t, before, h.surface.count(), "capped click must not redraw")
	assert.NotContains(t, h.engine.PendingPoints(), pt(99, 99))
}

func TestFreeform_RubberBandRedraws(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)

	before := h.surface.count()
	h.engine.PointerMove(pt(3, 3))
	assert.Equal(t, before, h.surface.count(), "no rubber band before first point")

	h.click(pt(1, 1))
	before = h.surface.count()
	h.engine.PointerMove(pt(5, 5))
	h.engine.PointerMove(pt(6, 6))
	assert.Equal(t, before+2, h.surface.count())

	h.engine.PointerLeave()
	assert.Len(t, h.engine.PendingPoints(), 1, "leave keeps pending points")
}

func TestSetTool_DiscardsInProgressGeometry(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(ToolFreeform)
	h.click(pt(1, 1), pt(10, 1), pt(5, 8))

	h.engine.SetTool(ToolRectangle)
	h.engine.SetTool(ToolFreeform)
	assert.Empty(t, h.engine.PendingPoints())

	h.engine.PointerDown(pt(0, 0), ButtonSecondary)
	assert.Empty(t, h.regions)

	h.engine.SetTool(ToolRectangle)
	h.engine.PointerDown(pt(1, 1), ButtonPrimary)
	h.engine.SetTool(ToolRectangle)
	assert.False(t, h.engine.Dragging())
	h.engine.PointerUp(pt(9, 9), ButtonPrimary)
	assert.Empty(t, h.regions)
}

func TestSetTool_UnknownIgnored(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTool(Tool(42))
	assert.Equal(t, ToolRectangle, h.engine.Tool())
}

func TestPointerInputIgnoredWithoutImage(t *testing.T) {
	surface := &recordingSurface{}
	e := New(100, 100, nil)
	e.SetSurface(surface)
	var got []region.Region
	e.OnRegion(func(r region.Region) { got = append(got, r) })

	e.PointerDown(pt(1, 1), ButtonPrimary)
	e.PointerMove(pt(5, 5))
	e.PointerUp(pt(5, 5), ButtonPrimary)

	assert.Empty(t, got)
	assert.Zero(t, surface.count())
}

func TestRegionIDsUnique(t *testing.T) {
	h := newHarness(t)
	h.engine.SetIDGenerator(region.UUIDGenerator{})
	h.drag(pt(0, 0), pt(5, 5))
	h.drag(pt(0, 0), pt(5, 5))
	require.Len(t, h.regions, 2)
	assert.NotEqual(t, h.regions[0].ID, h.regions[1].ID)
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{ToolRectangle, ToolFreeform} {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
}
