package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdering(t *testing.T) {
	pq := NewPriorityQueue[string]()
	require.True(t, pq.IsEmpty())

	pq.Enqueue("low", 0)
	pq.Enqueue("critical", 3)
	pq.Enqueue("normal", 1)
	pq.Enqueue("high", 2)
	require.Equal(t, 4, pq.Len())

	top, ok := pq.Peek()
	require.True(t, ok)
	require.Equal(t, "critical", top)

	var got []string
	for !pq.IsEmpty() {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		got = append(got, v)
	}
	require.Equal(t, []string{"critical", "high", "normal", "low"}, got)

	_, ok = pq.Dequeue()
	require.False(t, ok)
}

func TestDeque(t *testing.T) {
	d := NewDeque[int](4)

	t.Run("PushPop", func(t *testing.T) {
		d.PushBack(2)
		d.PushBack(3)
		d.PushFront(1)
		require.Equal(t, []int{1, 2, 3}, d.Slice())

		front, ok := d.PopFront()
		require.True(t, ok)
		require.Equal(t, 1, front)

		back, ok := d.PopBack()
		require.True(t, ok)
		require.Equal(t, 3, back)
		require.Equal(t, 1, d.Len())
	})

	t.Run("PeeksAndIndex", func(t *testing.T) {
		d.Clear()
		d.PushBack(10)
		d.PushBack(20)

		f, _ := d.Front()
		b, _ := d.Back()
		require.Equal(t, 10, f)
		require.Equal(t, 20, b)

		v, ok := d.At(1)
		require.True(t, ok)
		require.Equal(t, 20, v)
		_, ok = d.At(5)
		require.False(t, ok)
	})

	t.Run("RemoveFunc", func(t *testing.T) {
		d.Clear()
		d.PushBack(1)
		d.PushBack(2)
		d.PushBack(3)
		require.True(t, d.RemoveFunc(func(v int) bool { return v == 2 }))
		require.False(t, d.RemoveFunc(func(v int) bool { return v == 9 }))
		require.Equal(t, []int{1, 3}, d.Slice())
	})

	t.Run("EmptyPops", func(t *testing.T) {
		empty := NewDeque[int](0)
		_, ok := empty.PopFront()
		require.False(t, ok)
		_, ok = empty.PopBack()
		require.False(t, ok)
		require.True(t, empty.IsEmpty())
	})
}
