// Package buffer provides bounded buffering for the log pipeline.
package buffer

// Ring is a fixed-capacity circular buffer.
// When full, the oldest values are silently evicted.
// A Ring belongs to a single run and is not goroutine-safe.
type Ring[T any] struct {
	items    []T
	head     int // next write position
	count    int // current number of items
	capacity int
	dropped  uint64 // total evicted items
}

// NewRing creates a ring buffer with the given capacity.
// A zero capacity ring accepts pushes and holds nothing.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Push adds a value to the ring buffer. If full, the oldest value is evicted.
func (r *Ring[T]) Push(v T) {
	if r.capacity == 0 {
		r.dropped++
		return
	}
	r.items[r.head] = v
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	} else {
		r.dropped++
	}
}

// Snapshot returns a copy of all buffered values, oldest first.
func (r *Ring[T]) Snapshot() []T {
	result := make([]T, r.count)
	if r.count < r.capacity {
		copy(result, r.items[:r.count])
	} else if r.count > 0 {
		// Buffer is full: read from head (oldest) to end, then from start to head.
		n := copy(result, r.items[r.head:])
		copy(result[n:], r.items[:r.head])
	}
	return result
}

// Drain returns the buffered values, oldest first, and empties the ring.
func (r *Ring[T]) Drain() []T {
	out := r.Snapshot()
	r.Reset()
	return out
}

// Reset empties the ring without changing its capacity.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.count = 0
}

// Len returns the current number of values in the buffer.
func (r *Ring[T]) Len() int {
	return r.count
}

// Dropped returns the total number of evicted values.
func (r *Ring[T]) Dropped() uint64 {
	return r.dropped
}

// Cap returns the buffer capacity.
func (r *Ring[T]) Cap() int {
	return r.capacity
}
