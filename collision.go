package main

// CollisionEvent is emitted once per overlapping pair per step. A is
// always the lower id. Normal is the axis of least penetration and
// points from B toward A; Location is the midpoint of the overlap
// rectangle. Events are consumed within the tick that produced them.
// The same pair overlapping across consecutive steps emits again each
// step; debouncing is the consumer's job.
type CollisionEvent struct {
	A, B        BodyID
	Location    Vec
	Normal      Vec
	Penetration float64
	// Relative speed of the pair sampled before resolution, for
	// effect/audio intensity at the consumer layer.
	ApproachSpeed float64
}

// shouldCollide applies the symmetric layer/mask filter
func shouldCollide(a, b *Body) bool {
	return a.Mask&b.Layer != 0 && b.Mask&a.Layer != 0
}

// overlap computes AABB penetration along both axes on current
// positions. Both values are positive only when the boxes intersect.
func overlap(a, b *Body) (px, py float64) {
	px = a.HalfW + b.HalfW - abs(a.Pos.X-b.Pos.X)
	py = a.HalfH + b.HalfH - abs(a.Pos.Y-b.Pos.Y)
	return
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// contact builds the collision event for an overlapping pair: the axis
// of minimum penetration gives the normal, the overlap-rect midpoint
// gives the location.
func contact(a, b *Body, px, py float64) CollisionEvent {
	ev := CollisionEvent{A: a.ID, B: b.ID}

	if px < py {
		ev.Penetration = px
		if a.Pos.X >= b.Pos.X {
			ev.Normal = Vec{1, 0}
		} else {
			ev.Normal = Vec{-1, 0}
		}
	} else {
		ev.Penetration = py
		if a.Pos.Y >= b.Pos.Y {
			ev.Normal = Vec{0, 1}
		} else {
			ev.Normal = Vec{0, -1}
		}
	}

	lo := Vec{
		X: max(a.Pos.X-a.HalfW, b.Pos.X-b.HalfW),
		Y: max(a.Pos.Y-a.HalfH, b.Pos.Y-b.HalfH),
	}
	hi := Vec{
		X: min(a.Pos.X+a.HalfW, b.Pos.X+b.HalfW),
		Y: min(a.Pos.Y+a.HalfH, b.Pos.Y+b.HalfH),
	}
	ev.Location = lo.Add(hi).Scale(0.5)
	ev.ApproachSpeed = a.Vel.Sub(b.Vel).Len()
	return ev
}

// detect runs the all-pairs AABB test over active bodies in id order.
// The arena holds a dozen bodies at most, so no broad phase is needed.
func (w *World) detect() []CollisionEvent {
	var events []CollisionEvent
	for i := 0; i < len(w.order); i++ {
		a := w.bodies[w.order[i]]
		if a == nil || !a.active {
			continue
		}
		for j := i + 1; j < len(w.order); j++ {
			b := w.bodies[w.order[j]]
			if b == nil || !b.active {
				continue
			}
			if !shouldCollide(a, b) {
				continue
			}
			px, py := overlap(a, b)
			if px <= 0 || py <= 0 {
				continue
			}
			events = append(events, contact(a, b, px, py))
		}
	}
	return events
}
