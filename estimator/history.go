package estimator

// history keeps the most recent values up to a maximum size, dropping the
// oldest value when full
type history[T any] struct {
	// size is the maximum number of most recent values to keep
	size  int
	items []T
}

// newHistory returns a history holding at most size values
func newHistory[T any](size int) *history[T] {
	return &history[T]{
		size:  size,
		items: make([]T, 0, size),
	}
}

// Add a value to the history
func (h *history[T]) Add(v T) {
	h.items = append(h.items, v)

	// check if history is exceeded and drop oldest value
	if len(h.items) > h.size {
		h.items = h.items[1:]
	}
}

// Len returns the number of values held
func (h *history[T]) Len() int {
	return len(h.items)
}

// Last returns the n most recent values, or all values if fewer are held
func (h *history[T]) Last(n int) []T {
	if n > len(h.items) {
		n = len(h.items)
	}
	return h.items[len(h.items)-n:]
}

// Values returns a copy of all values held, oldest first
func (h *history[T]) Values() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}
