package annotation

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

func rect(id string, x, y, w, h float64) region.Region {
	return region.NewRectangle(id, geometry.Point2D{X: x, Y: y}, geometry.Point2D{X: x + w, Y: y + h}, "example.jpg")
}

func TestStore_CreateDefaults(t *testing.T) {
	s := NewStore(&region.CounterGenerator{Prefix: "gen-"})

	a := s.Create(rect("r1", 0, 0, 10, 10))
	assert.Equal(t, "r1", a.ID)
	assert.Equal(t, DefaultText, a.Text)
	assert.Equal(t, "example.jpg", a.SourceImage)
	assert.True(t, a.Visible)

	b := s.Create(region.Region{Kind: region.Polygon}, WithText("hand drawn"), WithSourceImage("other.png"))
	assert.Equal(t, "gen-1", b.ID)
	assert.Equal(t, "hand drawn", b.Text)
	assert.Equal(t, "other.png", b.SourceImage)

	assert.Equal(t, 2, s.Len())
}

func TestStore_DuplicateRegionIDGetsFreshID(t *testing.T) {
	s := NewStore(&region.CounterGenerator{Prefix: "gen-"})
	s.Create(rect("same", 0, 0, 1, 1))
	second := s.Create(rect("same", 0, 0, 1, 1))
	assert.Equal(t, "gen-1", second.ID)
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	for _, id := range []string{"c", "a", "b"} {
		s.Create(rect(id, 0, 0, 1, 1))
	}
	var ids []string
	for _, a := range s.All() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStore_EditAndUnknownIDs(t *testing.T) {
	s := NewStore(nil)
	s.Create(rect("r1", 0, 0, 1, 1))

	assert.True(t, s.Edit("r1", "door"))
	got, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "door", got.Text)

	before := s.All()
	assert.False(t, s.Edit("missing", "x"))
	assert.False(t, s.Delete("missing"))
	assert.False(t, s.ToggleVisibility("missing"))
	assert.Equal(t, before, s.All())
}

func TestStore_DeleteThenEditDoesNotResurrect(t *testing.T) {
	s := NewStore(nil)
	s.Create(rect("keep", 0, 0, 1, 1))
	s.Create(rect("gone", 0, 0, 1, 1))

	require.True(t, s.Delete("gone"))
	before := s.All()

	assert.False(t, s.Edit("gone", "x"))
	assert.Equal(t, before, s.All())
	_, ok := s.Get("gone")
	assert.False(t, ok)
}

func TestStore_ToggleVisibilitySequence(t *testing.T) {
	s := NewStore(nil)
	s.Create(rect("r1", 0, 0, 1, 1))

	var seen []bool
	for i := 0; i < 3; i++ {
		require.True(t, s.ToggleVisibility("r1"))
		a, _ := s.Get("r1")
		seen = append(seen, a.Visible)
	}
	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestStore_ReturnedCopiesAreIsolated(t *testing.T) {
	s := NewStore(nil)
	a := s.Create(rect("r1", 0, 0, 1, 1))
	a.Vertices[0].X = 999
	all := s.All()
	all[0].Vertices[1].X = 999

	got, _ := s.Get("r1")
	assert.Equal(t, 0.0, got.Vertices[0].X)
	assert.Equal(t, 1.0, got.Vertices[1].X)
}

func TestStore_OnChangeOnlyForEffectiveMutations(t *testing.T) {
	s := NewStore(nil)
	calls := 0
	s.OnChange(func() { calls++ })

	s.Create(rect("r1", 0, 0, 1, 1))
	s.Edit("r1", "x")
	s.ToggleVisibility("r1")
	s.Edit("nope", "x")
	s.Delete("nope")
	s.Delete("r1")
	assert.Equal(t, 4, calls)
}

func TestStore_CreateShapeNormalizes(t *testing.T) {
	s := NewStore(nil)
	a, ok := s.CreateShape(region.Rectangle, []geometry.Point2D{{X: 300, Y: 250}, {X: 100, Y: 100}})
	require.True(t, ok)
	want := []geometry.Point2D{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 250}, {X: 100, Y: 250}}
	if diff := cmp.Diff(want, a.Vertices); diff != "" {
		t.Fatalf("vertices mismatch (-want +got):\n%s", diff)
	}

	p, ok := s.CreateShape(region.Polygon, []geometry.Point2D{{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 0}})
	require.True(t, ok)
	assert.True(t, geometry.IsAngleSorted(p.Vertices))
}

func TestStore_CreateShapePolygonLimits(t *testing.T) {
	s := NewStore(nil)
	calls := 0
	s.OnChange(func() { calls++ })

	_, ok := s.CreateShape(region.Polygon, []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, calls)

	var many []geometry.Point2D
	for i := 0; i < region.MaxPolygonPoints+3; i++ {
		angle := 2 * math.Pi * float64(i) / float64(region.MaxPolygonPoints+3)
		many = append(many, geometry.Point2D{X: 50 + 40*math.Cos(angle), Y: 50 + 40*math.Sin(angle)})
	}
	p, ok := s.CreateShape(region.Polygon, many)
	require.True(t, ok)
	assert.Len(t, p.Vertices, region.MaxPolygonPoints)
	assert.ElementsMatch(t, many[:region.MaxPolygonPoints], p.Vertices)
	assert.Equal(t, 1, calls)
}

func TestStore_Find(t *testing.T) {
	s := NewStore(nil)
	s.Create(rect("under", 0, 0, 100, 100))
	s.Create(rect("over", 50, 50, 100, 100))

	a, ok := s.Find(geometry.Point2D{X: 60, Y: 60})
	require.True(t, ok)
	assert.Equal(t, "over", a.ID)

	s.ToggleVisibility("over")
	a, ok = s.Find(geometry.Point2D{X: 60, Y: 60})
	require.True(t, ok)
	assert.Equal(t, "under", a.ID)

	_, ok = s.Find(geometry.Point2D{X: 500, Y: 500})
	assert.False(t, ok)
}

func TestStore_ExportTwoRectangles(t *testing.T) {
	s := NewStore(nil)
	s.Create(rect("1", 100, 100, 200, 150))
	s.Create(rect("2", 300, 200, 150, 100))

	data, err := s.Export()
	require.NoError(t, err)

	want := `[
  {
    "id": "1",
    "text": "New annotation",
    "imageFile": "example.jpg",
    "type": "rectangle",
    "coordinates": [
      {
        "x": 100,
        "y": 100
      },
      {
        "x": 300,
        "y": 100
      },
      {
        "x": 300,
        "y": 250
      },
      {
        "x": 100,
        "y": 250
      }
    ],
    "visible": true
  },
  {
    "id": "2",
    "text": "New annotation",
    "imageFile": "example.jpg",
    "type": "rectangle",
    "coordinates": [
      {
        "x": 300,
        "y": 200
      },
      {
        "x": 450,
        "y": 200
      },
      {
        "x": 450,
        "y": 300
      },
      {
        "x": 300,
        "y": 300
      }
    ],
    "visible": true
  }
]
`
	assert.Equal(t, want, string(data))

	var decoded []Annotation
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(s.All(), decoded); diff != "" {
		t.Fatalf("decoded export mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ExportEmptyIsArray(t *testing.T) {
	data, err := NewStore(nil).Export()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_WriteTo(t *testing.T) {
	s := NewStore(nil)
	s.SetPlaceholder("Untitled")
	s.Create(rect("1", 0, 0, 1, 1))

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), `"text": "Untitled"`)
}
