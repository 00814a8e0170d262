package main

// Step advances the simulation by exactly one fixed physics tick:
// integrate all active bodies, detect overlapping pairs, resolve each
// contact. Returns the collision events raised this tick, ordered by
// body id pair. Runs strictly sequentially; callers drive it from a
// single goroutine.
func (w *World) Step(dt float64) []CollisionEvent {
	w.integrate(dt)
	events := w.detect()
	for _, ev := range events {
		w.resolve(ev)
	}
	return events
}
