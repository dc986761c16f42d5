package livequery

import (
	"sort"
	"sync"
)

// Merger accumulates the latest result set per key (one key per
// subscription) and emits the merged, ordered union after each update.
// The last delivery for a key replaces the previous one.
type Merger[T any] struct {
	mu    sync.Mutex
	parts map[string][]T
	less  func(a, b T) bool
	emit  func([]T)
}

// NewMerger builds a Merger. emit is called with the lock held so that
// emissions follow update order; it must not call back into the Merger.
func NewMerger[T any](less func(a, b T) bool, emit func([]T)) *Merger[T] {
	return &Merger[T]{
		parts: make(map[string][]T),
		less:  less,
		emit:  emit,
	}
}

// Set replaces the items for key and emits the merged list.
func (m *Merger[T]) Set(key string, items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parts[key] = items

	keys := make([]string, 0, len(m.parts))
	for k := range m.parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]T, 0)
	for _, k := range keys {
		merged = append(merged, m.parts[k]...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return m.less(merged[i], merged[j]) })

	m.emit(merged)
}
