// Package ecs implements a minimal entity-component-system runtime: sparse
// per-type component storage behind a type-erased registry, plus a
// deterministic sequential system scheduler. It is the simulation core the
// solitaire, game and netsync packages build on.
package ecs

// Entity is an opaque handle identifying a simulation object. It carries no
// data of its own; components attached through a World give it meaning.
type Entity uint64

// NoEntity is the reserved zero handle. A World never issues it, so it can
// safely mean "no entity" in component fields and wire payloads.
const NoEntity Entity = 0

// ID returns the raw numeric value of the handle.
func (e Entity) ID() uint64 {
	return uint64(e)
}

// Valid reports whether the handle refers to an issuable entity.
func (e Entity) Valid() bool {
	return e != NoEntity
}
