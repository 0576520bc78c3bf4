package ecs

import "iter"

// Component is the constraint a type must satisfy to be stored in a World.
// Any type qualifies; the registry keys storages by the concrete type, so
// two distinct types never share a storage.
type Component any

// Storage holds every instance of one component type, keyed by owning
// entity. At most one value per entity; insert, lookup and removal are O(1),
// iteration is O(n) in unspecified order.
type Storage[T Component] struct {
	items map[Entity]*T
}

// NewStorage returns an empty storage for T.
func NewStorage[T Component]() *Storage[T] {
	return &Storage[T]{items: make(map[Entity]*T)}
}

// Insert attaches value to entity, replacing any existing instance. It
// returns the replaced value and true when a replacement happened.
func (s *Storage[T]) Insert(entity Entity, value T) (T, bool) {
	prev, ok := s.items[entity]
	s.items[entity] = &value
	if !ok {
		var zero T
		return zero, false
	}
	return *prev, true
}

// Get returns a copy of the entity's component, or the zero value and false
// when the entity has none.
func (s *Storage[T]) Get(entity Entity) (T, bool) {
	v, ok := s.items[entity]
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// GetMut returns a pointer to the entity's component for in-place mutation,
// or nil and false when the entity has none. The pointer stays valid until
// the component is removed or replaced.
func (s *Storage[T]) GetMut(entity Entity) (*T, bool) {
	v, ok := s.items[entity]
	return v, ok
}

// Remove detaches the entity's component and returns it, or the zero value
// and false when there was nothing to remove.
func (s *Storage[T]) Remove(entity Entity) (T, bool) {
	v, ok := s.items[entity]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.items, entity)
	return *v, true
}

// Contains reports whether the entity has a component in this storage.
func (s *Storage[T]) Contains(entity Entity) bool {
	_, ok := s.items[entity]
	return ok
}

// Len returns the number of stored components.
func (s *Storage[T]) Len() int {
	return len(s.items)
}

// Empty reports whether the storage holds no components.
func (s *Storage[T]) Empty() bool {
	return len(s.items) == 0
}

// All iterates every (entity, component) pair by value.
func (s *Storage[T]) All() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for e, v := range s.items {
			if !yield(e, *v) {
				return
			}
		}
	}
}

// AllMut iterates every (entity, component) pair, yielding pointers so
// callers can mutate components in place.
func (s *Storage[T]) AllMut() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for e, v := range s.items {
			if !yield(e, v) {
				return
			}
		}
	}
}

// discard implements the type-erased cleanup hook the World sweeps on
// entity removal.
func (s *Storage[T]) discard(entity Entity) bool {
	_, ok := s.items[entity]
	if ok {
		delete(s.items, entity)
	}
	return ok
}

// length implements the type-erased size hook.
func (s *Storage[T]) length() int {
	return len(s.items)
}
