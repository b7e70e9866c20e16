package solwatch

import (
	"sync"
)

// WatchList holds the payments being watched on one network, in insertion
// order. Snapshot returns an independent copy, so a tick can iterate it
// while Add and RemoveWhere mutate the live list. No duplicate-reference
// check is made; that is the caller's responsibility.
type WatchList struct {
	mu      sync.Mutex
	entries []WatchedPayment
}

func NewWatchList() *WatchList {
	return &WatchList{}
}

// Add appends a payment to the list. A payment added mid-tick is absent
// from that tick's snapshot and picked up on the next one.
func (w *WatchList) Add(p WatchedPayment) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, p)
}

// Snapshot returns a point-in-time copy safe to iterate concurrently.
func (w *WatchList) Snapshot() []WatchedPayment {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := make([]WatchedPayment, len(w.entries))
	copy(entries, w.entries)
	return entries
}

// RemoveWhere removes every entry matching the predicate.
func (w *WatchList) RemoveWhere(match func(WatchedPayment) bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.entries[:0]
	for _, p := range w.entries {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	w.entries = kept
}

// Len reports how many payments are currently watched.
func (w *WatchList) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}
