package monitor

// Bounded is a fixed-capacity FIFO window. Appending past capacity drops
// the oldest element. It is not safe for concurrent use.
type Bounded[T any] struct {
	items    []T
	capacity int
}

// History is the rolling window of probe results
type History = Bounded[Result]

// NewBounded creates an empty window holding at most capacity elements
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Bounded[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// NewHistory creates an empty result history
func NewHistory(capacity int) *History {
	return NewBounded[Result](capacity)
}

// Append adds v to the tail, evicting the head when over capacity.
// It reports whether an element was evicted.
func (b *Bounded[T]) Append(v T) bool {
	b.items = append(b.items, v)
	if len(b.items) <= b.capacity {
		return false
	}

	// Shift in place so the backing array never grows past capacity+1
	copy(b.items, b.items[1:])
	var zero T
	b.items[len(b.items)-1] = zero
	b.items = b.items[:len(b.items)-1]
	return true
}

// Snapshot returns a copy of the contents, oldest first
func (b *Bounded[T]) Snapshot() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Reset replaces the contents, keeping only the newest Cap() items
func (b *Bounded[T]) Reset(items []T) {
	if len(items) > b.capacity {
		items = items[len(items)-b.capacity:]
	}
	b.items = append(b.items[:0], items...)
}

// Len returns the number of stored elements
func (b *Bounded[T]) Len() int {
	return len(b.items)
}

// Cap returns the capacity
func (b *Bounded[T]) Cap() int {
	return b.capacity
}

// Last returns the newest element
func (b *Bounded[T]) Last() (T, bool) {
	if len(b.items) == 0 {
		var zero T
		return zero, false
	}
	return b.items[len(b.items)-1], true
}
