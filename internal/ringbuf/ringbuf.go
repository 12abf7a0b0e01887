package ringbuf

// Buffer is a fixed-capacity FIFO buffer. Pushing into a full buffer evicts
// the oldest entry in O(1); entries stay in insertion order.
type Buffer[T any] struct {
	items []T
	head  int
	size  int
}

func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

func (b *Buffer[T]) Push(v T) {
	tail := (b.head + b.size) % len(b.items)
	b.items[tail] = v
	if b.size == len(b.items) {
		b.head = (b.head + 1) % len(b.items)
		return
	}
	b.size++
}

func (b *Buffer[T]) Len() int { return b.size }

func (b *Buffer[T]) Cap() int { return len(b.items) }

// Items returns the buffered entries oldest-first as a fresh slice.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Last returns the most recently pushed entry, or false on an empty buffer.
func (b *Buffer[T]) Last() (T, bool) {
	if b.size == 0 {
		var zero T
		return zero, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}
