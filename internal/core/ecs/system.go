package ecs

// System is a unit of simulation logic run once per tick against a World.
// dt is the elapsed time since the previous tick, in seconds.
type System interface {
	Name() string
	Update(w *World, dt float64)
}

// Scheduler runs systems sequentially in registration order. Order is the
// only contract: every registered system runs exactly once per Update call,
// on the calling goroutine.
type Scheduler struct {
	systems []System
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddSystem appends a system to the execution order.
func (s *Scheduler) AddSystem(sys System) {
	s.systems = append(s.systems, sys)
}

// Update runs every registered system once, in registration order.
func (s *Scheduler) Update(w *World, dt float64) {
	for _, sys := range s.systems {
		sys.Update(w, dt)
	}
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	return len(s.systems)
}
