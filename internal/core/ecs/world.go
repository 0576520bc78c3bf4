package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// erasedStorage is the view the World keeps of a Storage[T] once its element
// type has been erased from the registry.
type erasedStorage interface {
	discard(Entity) bool
	length() int
}

// World owns the entity id allocator, the roster of live entities and one
// storage per component type, created lazily on first use. It is not safe
// for concurrent use; each room drives its World from a single tick loop.
type World struct {
	nextID   Entity
	alive    []Entity
	aliveSet map[Entity]struct{}
	storages map[reflect.Type]erasedStorage
}

// NewWorld returns an empty world. The first entity it issues has id 1.
func NewWorld() *World {
	return &World{
		nextID:   1,
		aliveSet: make(map[Entity]struct{}),
		storages: make(map[reflect.Type]erasedStorage),
	}
}

// CreateEntity allocates a fresh entity handle. Ids are strictly increasing
// and never reused, even after the entity is removed.
func (w *World) CreateEntity() Entity {
	e := w.nextID
	w.nextID++
	w.alive = append(w.alive, e)
	w.aliveSet[e] = struct{}{}
	return e
}

// RemoveEntity detaches the entity from the live roster and discards its
// components from every registered storage. Removing an unknown or already
// removed entity is a no-op. It reports whether the entity was alive.
func (w *World) RemoveEntity(entity Entity) bool {
	if _, ok := w.aliveSet[entity]; !ok {
		return false
	}
	delete(w.aliveSet, entity)
	for i, e := range w.alive {
		if e == entity {
			w.alive = append(w.alive[:i], w.alive[i+1:]...)
			break
		}
	}
	for _, s := range w.storages {
		s.discard(entity)
	}
	return true
}

// Contains reports whether the entity is currently alive in this world.
func (w *World) Contains(entity Entity) bool {
	_, ok := w.aliveSet[entity]
	return ok
}

// Entities returns a copy of the live roster in creation order.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.alive))
	copy(out, w.alive)
	return out
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.alive)
}

// storageOf resolves the storage for T, creating it when create is set.
// This is the single point where the type-erased registry entry is narrowed
// back to its concrete type; a mismatch here means the registry invariant
// (one storage per type, keyed by that type) has been broken, which is a
// programming error, so it panics rather than returning an error.
func storageOf[T Component](w *World, create bool) *Storage[T] {
	key := reflect.TypeFor[T]()
	raw, ok := w.storages[key]
	if !ok {
		if !create {
			return nil
		}
		s := NewStorage[T]()
		w.storages[key] = s
		return s
	}
	s, ok := raw.(*Storage[T])
	if !ok {
		panic(fmt.Sprintf("ecs: registry entry for %v holds %T", key, raw))
	}
	return s
}

// Add attaches a component to the entity, creating the storage for T on
// first use. It returns the replaced value and true when the entity already
// had a T.
func Add[T Component](w *World, entity Entity, value T) (T, bool) {
	return storageOf[T](w, true).Insert(entity, value)
}

// Get returns a copy of the entity's T, or the zero value and false when
// the entity has none (or no T storage exists yet).
func Get[T Component](w *World, entity Entity) (T, bool) {
	s := storageOf[T](w, false)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.Get(entity)
}

// GetMut returns a pointer to the entity's T for in-place mutation, or nil
// and false when the entity has none.
func GetMut[T Component](w *World, entity Entity) (*T, bool) {
	s := storageOf[T](w, false)
	if s == nil {
		return nil, false
	}
	return s.GetMut(entity)
}

// RemoveComponent detaches the entity's T and returns it, or the zero value
// and false when there was nothing to remove.
func RemoveComponent[T Component](w *World, entity Entity) (T, bool) {
	s := storageOf[T](w, false)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.Remove(entity)
}

// Has reports whether the entity has a T attached.
func Has[T Component](w *World, entity Entity) bool {
	s := storageOf[T](w, false)
	return s != nil && s.Contains(entity)
}

// Count returns the number of entities carrying a T.
func Count[T Component](w *World) int {
	s := storageOf[T](w, false)
	if s == nil {
		return 0
	}
	return s.Len()
}

// Query iterates every entity carrying a T, by value. A missing storage
// yields an empty sequence.
func Query[T Component](w *World) iter.Seq2[Entity, T] {
	s := storageOf[T](w, false)
	if s == nil {
		return func(func(Entity, T) bool) {}
	}
	return s.All()
}

// QueryMut iterates every entity carrying a T, yielding pointers for
// in-place mutation.
func QueryMut[T Component](w *World) iter.Seq2[Entity, *T] {
	s := storageOf[T](w, false)
	if s == nil {
		return func(func(Entity, *T) bool) {}
	}
	return s.AllMut()
}
