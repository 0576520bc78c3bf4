package sequence

import "iter"

// Deque is a slice-backed double-ended queue. The zero value is usable.
type Deque[T any] struct {
	items []T
}

// NewDeque returns an empty deque with the given capacity hint.
func NewDeque[T any](capacity int) *Deque[T] {
	return &Deque[T]{items: make([]T, 0, capacity)}
}

// PushBack appends a value at the back.
func (d *Deque[T]) PushBack(value T) {
	d.items = append(d.items, value)
}

// PushFront prepends a value at the front.
func (d *Deque[T]) PushFront(value T) {
	d.items = append([]T{value}, d.items...)
}

// PopBack removes and returns the back value.
func (d *Deque[T]) PopBack() (T, bool) {
	if len(d.items) == 0 {
		var zero T
		return zero, false
	}
	v := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return v, true
}

// PopFront removes and returns the front value.
func (d *Deque[T]) PopFront() (T, bool) {
	if len(d.items) == 0 {
		var zero T
		return zero, false
	}
	v := d.items[0]
	d.items = d.items[1:]
	return v, true
}

// Back returns the back value without removing it.
func (d *Deque[T]) Back() (T, bool) {
	if len(d.items) == 0 {
		var zero T
		return zero, false
	}
	return d.items[len(d.items)-1], true
}

// Front returns the front value without removing it.
func (d *Deque[T]) Front() (T, bool) {
	if len(d.items) == 0 {
		var zero T
		return zero, false
	}
	return d.items[0], true
}

// At returns the value at index i, front first.
func (d *Deque[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(d.items) {
		var zero T
		return zero, false
	}
	return d.items[i], true
}

// RemoveFunc removes the first value matching the predicate and reports
// whether one was found.
func (d *Deque[T]) RemoveFunc(match func(T) bool) bool {
	for i, v := range d.items {
		if match(v) {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of values held.
func (d *Deque[T]) Len() int {
	return len(d.items)
}

// IsEmpty reports whether the deque holds no values.
func (d *Deque[T]) IsEmpty() bool {
	return len(d.items) == 0
}

// Clear drops every value.
func (d *Deque[T]) Clear() {
	d.items = d.items[:0]
}

// All iterates the values front to back.
func (d *Deque[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range d.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the values, front first.
func (d *Deque[T]) Slice() []T {
	out := make([]T, len(d.items))
	copy(out, d.items)
	return out
}
