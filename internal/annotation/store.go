package annotation

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"region-annotator/internal/region"
	"region-annotator/pkg/geometry"
)

// CreateOption customizes a new annotation.
type CreateOption func(*Annotation)

// WithText sets the annotation text instead of the placeholder.
func WithText(text string) CreateOption {
	return func(a *Annotation) { a.Text = text }
}

// WithSourceImage overrides the source image taken from the region.
func WithSourceImage(name string) CreateOption {
	return func(a *Annotation) { a.SourceImage = name }
}

// Store is an ordered collection of annotations keyed by ID. Insertion
// order is preserved. Operations on unknown IDs are no-ops.
type Store struct {
	mu          sync.RWMutex
	items       []Annotation
	ids         region.IDGenerator
	placeholder string
	listeners   []func()
}

// NewStore creates an empty store. A nil generator uses random UUIDs.
func NewStore(ids region.IDGenerator) *Store {
	if ids == nil {
		ids = region.UUIDGenerator{}
	}
	return &Store{ids: ids, placeholder: DefaultText}
}

// SetPlaceholder changes the default text for new annotations.
func (s *Store) SetPlaceholder(text string) {
	s.mu.Lock()
	s.placeholder = text
	s.mu.Unlock()
}

// OnChange registers a listener called after every effective mutation.
func (s *Store) OnChange(listener func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// Create appends an annotation derived from r. The region ID is reused
// unless it is empty or already taken, in which case a new one is issued.
func (s *Store) Create(r region.Region, opts ...CreateOption) Annotation {
	s.mu.Lock()
	a := Annotation{
		ID:          r.ID,
		Text:        s.placeholder,
		SourceImage: r.SourceImage,
		Kind:        r.Kind,
		Vertices:    append([]geometry.Point2D(nil), r.Vertices...),
		Visible:     true,
	}
	for _, opt := range opts {
		opt(&a)
	}
	for a.ID == "" || s.indexLocked(a.ID) >= 0 {
		a.ID = s.ids.NewID()
	}
	s.items = append(s.items, a)
	s.mu.Unlock()

	s.notify()
	return a.clone()
}

// CreateShape appends an annotation from directly supplied shape data.
// Rectangles are normalized to their canonical four corners and polygons
// to angular order, matching what capture would have produced. Polygons
// keep at most region.MaxPolygonPoints vertices; with fewer than
// region.MinPolygonPoints nothing is added and ok is false.
func (s *Store) CreateShape(kind region.ShapeKind, vertices []geometry.Point2D, opts ...CreateOption) (a Annotation, ok bool) {
	r := region.Region{Kind: kind, Vertices: vertices}
	switch kind {
	case region.Rectangle:
		r.Vertices = geometry.BoundingBox(vertices).Corners()
	case region.Polygon:
		if len(vertices) > region.MaxPolygonPoints {
			vertices = vertices[:region.MaxPolygonPoints]
		}
		if r, ok = region.NewPolygon("", vertices, ""); !ok {
			return Annotation{}, false
		}
	}
	return s.Create(r, opts...), true
}

// Edit replaces the text of the annotation with the given ID.
func (s *Store) Edit(id, text string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[i].Text = text
	s.mu.Unlock()

	s.notify()
	return true
}

// Delete removes the annotation with the given ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.mu.Unlock()

	s.notify()
	return true
}

// ToggleVisibility flips the visibility of the annotation with the given ID.
func (s *Store) ToggleVisibility(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[i].Visible = !s.items[i].Visible
	s.mu.Unlock()

	s.notify()
	return true
}

// Get returns a copy of the annotation with the given ID.
func (s *Store) Get(id string) (Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Annotation{}, false
	}
	return s.items[i].clone(), true
}

// All returns a copy of the annotations in insertion order.
func (s *Store) All() []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Annotation, len(s.items))
	for i, a := range s.items {
		out[i] = a.clone()
	}
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the most recently added visible annotation containing p.
func (s *Store) Find(p geometry.Point2D) (Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		a := s.items[i]
		if a.Visible && a.Region().Contains(p) {
			return a.clone(), true
		}
	}
	return Annotation{}, false
}

// Export serializes every annotation, in order, as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	items := s.All()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the export to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	data, err := s.Export()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener()
	}
}
