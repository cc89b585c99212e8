// Package viewer implements the document/view core of the application: the
// dataset holder, the command enablement policy, label anchors with
// viewport culling, and the menu command handlers. Everything in this
// package runs on the single UI control thread; no locking is needed.
package viewer

import "geoview/internal/geodata"

// Holder owns the single currently loaded dataset. It is the one source of
// truth for "is a file open"; every mutation notifies the registered
// observers synchronously so enablement and rendering can never go stale.
type Holder struct {
	ds        *geodata.Dataset
	observers []func(*geodata.Dataset)
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// OnChange registers an observer invoked after every Set or Clear, with the
// new dataset (nil when cleared).
func (h *Holder) OnChange(fn func(*geodata.Dataset)) {
	h.observers = append(h.observers, fn)
}

// Set replaces the held dataset and notifies. A nil dataset represents
// "no file open".
func (h *Holder) Set(ds *geodata.Dataset) {
	h.ds = ds
	for _, fn := range h.observers {
		fn(ds)
	}
}

// Get returns the current dataset, or nil when none is loaded.
func (h *Holder) Get() *geodata.Dataset {
	return h.ds
}

// Clear resets the holder to the empty state and notifies.
func (h *Holder) Clear() {
	h.Set(nil)
}

// HasDataset reports whether a dataset is loaded.
func (h *Holder) HasDataset() bool {
	return h.ds != nil
}
