package sequence

import "container/heap"

// PriorityQueue is a max-priority queue: Dequeue returns the highest-priority
// value first. Values with equal priority come out in unspecified order.
type PriorityQueue[T any] struct {
	h prioHeap[T]
}

type prioItem[T any] struct {
	value    T
	priority int
}

type prioHeap[T any] []prioItem[T]

func (h prioHeap[T]) Len() int            { return len(h) }
func (h prioHeap[T]) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h prioHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *prioHeap[T]) Push(x any)         { *h = append(*h, x.(prioItem[T])) }
func (h *prioHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewPriorityQueue returns an empty queue.
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Enqueue adds a value with the given priority.
func (pq *PriorityQueue[T]) Enqueue(value T, priority int) {
	heap.Push(&pq.h, prioItem[T]{value: value, priority: priority})
}

// Dequeue removes and returns the highest-priority value.
func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	if len(pq.h) == 0 {
		var zero T
		return zero, false
	}
	item := heap.Pop(&pq.h).(prioItem[T])
	return item.value, true
}

// Peek returns the highest-priority value without removing it.
func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if len(pq.h) == 0 {
		var zero T
		return zero, false
	}
	return pq.h[0].value, true
}

// Len returns the number of queued values.
func (pq *PriorityQueue[T]) Len() int {
	return len(pq.h)
}

// IsEmpty reports whether the queue holds no values.
func (pq *PriorityQueue[T]) IsEmpty() bool {
	return len(pq.h) == 0
}
