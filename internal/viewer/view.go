package viewer

import "github.com/paulmach/orb"

// ViewRect is the world-coordinate window currently visible on the canvas.
type ViewRect struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ViewRectFromBound converts a dataset extent into a view window.
func ViewRectFromBound(b orb.Bound) ViewRect {
	return ViewRect{MinX: b.Min[0], MaxX: b.Max[0], MinY: b.Min[1], MaxY: b.Max[1]}
}

// Contains reports whether the point lies within the closed rectangle;
// points exactly on the boundary count as inside.
func (v ViewRect) Contains(p orb.Point) bool {
	return p[0] >= v.MinX && p[0] <= v.MaxX && p[1] >= v.MinY && p[1] <= v.MaxY
}

// IsZero reports an unset view.
func (v ViewRect) IsZero() bool {
	return v == ViewRect{}
}

// Width returns the horizontal extent of the view.
func (v ViewRect) Width() float64 { return v.MaxX - v.MinX }

// Height returns the vertical extent of the view.
func (v ViewRect) Height() float64 { return v.MaxY - v.MinY }

// ViewNotifier fans a view-rectangle change out to its listeners,
// synchronously and in subscription order. It decouples the culler from
// the widget toolkit's own event system.
type ViewNotifier struct {
	listeners []func(ViewRect)
}

// Subscribe registers a listener for view changes.
func (n *ViewNotifier) Subscribe(fn func(ViewRect)) {
	n.listeners = append(n.listeners, fn)
}

// Publish delivers the new view to every listener before returning.
func (n *ViewNotifier) Publish(v ViewRect) {
	for _, fn := range n.listeners {
		fn(v)
	}
}
