package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

func TestWorldEntityAllocation(t *testing.T) {
	w := NewWorld()

	t.Run("FirstIDIsOne", func(t *testing.T) {
		require.Equal(t, Entity(1), w.CreateEntity())
	})

	t.Run("IDsStrictlyIncrease", func(t *testing.T) {
		prev := Entity(1)
		for i := 0; i < 100; i++ {
			e := w.CreateEntity()
			require.Greater(t, e, prev)
			prev = e
		}
	})

	t.Run("ZeroIsNeverIssued", func(t *testing.T) {
		require.False(t, NoEntity.Valid())
		require.False(t, w.Contains(NoEntity))
	})
}

func TestWorldRemoveEntity(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()

	require.True(t, w.Contains(a))
	require.True(t, w.RemoveEntity(a))
	require.False(t, w.Contains(a))
	require.Equal(t, []Entity{b}, w.Entities())

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		require.False(t, w.RemoveEntity(a))
		require.False(t, w.RemoveEntity(Entity(999)))
		require.Equal(t, 1, w.EntityCount())
	})

	t.Run("IDNotReissued", func(t *testing.T) {
		c := w.CreateEntity()
		require.Greater(t, c, b)
		require.NotEqual(t, a, c)
	})
}

func TestWorldRemoveEntityCascades(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	Add(w, e, position{X: 1})
	Add(w, e, velocity{DX: 2})

	keep := w.CreateEntity()
	Add(w, keep, position{X: 9})

	require.True(t, w.RemoveEntity(e))
	require.False(t, Has[position](w, e))
	require.False(t, Has[velocity](w, e))
	require.Equal(t, 1, Count[position](w))
	require.True(t, Has[position](w, keep))
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	t.Run("AddThenGet", func(t *testing.T) {
		_, replaced := Add(w, e, position{X: 1, Y: 2})
		require.False(t, replaced)

		got, ok := Get[position](w, e)
		require.True(t, ok)
		require.Equal(t, position{X: 1, Y: 2}, got)
	})

	t.Run("TypesDoNotCollide", func(t *testing.T) {
		Add(w, e, velocity{DX: 3})

		p, ok := Get[position](w, e)
		require.True(t, ok)
		require.Equal(t, 1.0, p.X)

		v, ok := Get[velocity](w, e)
		require.True(t, ok)
		require.Equal(t, 3.0, v.DX)
	})

	t.Run("GetMutWritesThrough", func(t *testing.T) {
		p, ok := GetMut[position](w, e)
		require.True(t, ok)
		p.Y = 7

		got, _ := Get[position](w, e)
		require.Equal(t, 7.0, got.Y)
	})

	t.Run("AbsentIsZeroNotError", func(t *testing.T) {
		stranger := w.CreateEntity()
		got, ok := Get[position](w, stranger)
		require.False(t, ok)
		require.Equal(t, position{}, got)

		// Lookups for a never-added type must not create a storage.
		type unused struct{ N int }
		_, ok = Get[unused](w, stranger)
		require.False(t, ok)
		require.False(t, Has[unused](w, stranger))
		_, ok = RemoveComponent[unused](w, stranger)
		require.False(t, ok)
		require.Equal(t, 0, Count[unused](w))
	})

	t.Run("RemoveComponentReturnsValue", func(t *testing.T) {
		v, ok := RemoveComponent[velocity](w, e)
		require.True(t, ok)
		require.Equal(t, 3.0, v.DX)
		require.False(t, Has[velocity](w, e))
	})
}

func TestWorldQuery(t *testing.T) {
	w := NewWorld()
	want := make(map[Entity]float64)
	for i := 1; i <= 5; i++ {
		e := w.CreateEntity()
		Add(w, e, position{X: float64(i)})
		want[e] = float64(i)
	}

	seen := make(map[Entity]float64)
	for e, p := range Query[position](w) {
		seen[e] = p.X
	}
	require.Equal(t, want, seen)

	t.Run("EmptyQueryForUnknownType", func(t *testing.T) {
		n := 0
		for range Query[velocity](w) {
			n++
		}
		require.Zero(t, n)
	})

	t.Run("QueryMutMutatesInPlace", func(t *testing.T) {
		for _, p := range QueryMut[position](w) {
			p.X += 100
		}
		for e, p := range Query[position](w) {
			require.Equal(t, want[e]+100, p.X)
		}
	})
}
