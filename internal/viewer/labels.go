package viewer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"geoview/internal/geodata"
)

// LabelAnchor pins a feature's display text to its centroid. Visible is
// maintained by the LabelSet's culler.
type LabelAnchor struct {
	ID      uuid.UUID
	At      orb.Point
	Text    string
	Visible bool
}

// BuildAnchors computes one anchor per feature from the chosen attribute
// field. It either succeeds for every feature or fails without producing
// anything — a feature without a geometry aborts the whole build so the
// caller's previous labels stay intact.
func BuildAnchors(ds *geodata.Dataset, field string) ([]LabelAnchor, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	anchors := make([]LabelAnchor, 0, len(ds.Features))
	for i, f := range ds.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature %d: %w", i, ErrNoCentroid)
		}
		centroid, _ := planar.CentroidArea(f.Geometry)
		anchors = append(anchors, LabelAnchor{
			ID:   uuid.New(),
			At:   centroid,
			Text: f.AttributeString(field),
		})
	}
	return anchors, nil
}

// LabelSet owns the current anchors plus a visibility cache keyed by anchor
// identity. Visibility is recomputed in full on every view change — O(n)
// per change, which is fine at this scale.
type LabelSet struct {
	anchors []LabelAnchor
	visible map[uuid.UUID]bool
}

// NewLabelSet takes ownership of the anchors and performs the initial cull
// against the view at creation time.
func NewLabelSet(anchors []LabelAnchor, view ViewRect) *LabelSet {
	s := &LabelSet{
		anchors: anchors,
		visible: make(map[uuid.UUID]bool, len(anchors)),
	}
	s.UpdateVisibility(view)
	return s
}

// UpdateVisibility recomputes every anchor's visibility against the view:
// an anchor is visible iff its point lies in the closed rectangle,
// boundary included. Must run synchronously before the next render.
func (s *LabelSet) UpdateVisibility(view ViewRect) {
	for i := range s.anchors {
		vis := view.Contains(s.anchors[i].At)
		s.anchors[i].Visible = vis
		s.visible[s.anchors[i].ID] = vis
	}
}

// Anchors returns the anchors with their current visibility.
func (s *LabelSet) Anchors() []LabelAnchor {
	if s == nil {
		return nil
	}
	return s.anchors
}

// IsVisible looks an anchor up in the visibility cache.
func (s *LabelSet) IsVisible(id uuid.UUID) bool {
	return s.visible[id]
}

// VisibleCount returns how many anchors the last cull kept visible.
func (s *LabelSet) VisibleCount() int {
	n := 0
	for _, a := range s.anchors {
		if a.Visible {
			n++
		}
	}
	return n
}
