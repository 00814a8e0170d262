package main

import "iter"

// TrajectoryPoint is one forecast sample. Time is seconds from the
// start of the forecast.
type TrajectoryPoint struct {
	Time float64
	Pos  Vec
	Vel  Vec
}

// Trajectory is a forecast of a ball's free flight, regenerated
// wholesale on the AI cadence and overwritten, never patched. Start is
// the simulation clock at generation; consumers must check staleness
// instead of trusting wall-clock coincidence.
type Trajectory struct {
	Start   float64
	Version uint64
	Points  []TrajectoryPoint
}

// Stale reports whether the trajectory is older than one full
// prediction cycle relative to the simulation clock now.
func (tr *Trajectory) Stale(now float64) bool {
	return now-tr.Start > 2*AITimeStep
}

// PredictSeq re-simulates a body's free flight from its current state
// and yields (time, position, velocity) samples every subDt seconds up
// to horizon. The live body is never mutated: motion is advanced on
// copies, and only idealized reflection against the four arena bounds
// is modeled: the velocity component on the crossed axis flips and
// the position clamps to the boundary. Paddle contacts are not
// forecast. The sequence is lazy and restartable: ranging over it again
// replays from the state captured at call time.
func (w *World) PredictSeq(id BodyID, horizon, subDt float64) iter.Seq[TrajectoryPoint] {
	b := w.bodies[id]
	if b == nil || !b.active || subDt <= 0 {
		return func(yield func(TrajectoryPoint) bool) {}
	}

	// Captured once so restarts replay the same forecast
	startPos, startVel := b.Pos, b.Vel
	maxSpeed := b.MaxSpeed
	halfW, halfH := w.arena.W/2, w.arena.H/2

	// Integer step counter so sample times carry no accumulated
	// floating point drift over long horizons.
	steps := int(horizon/subDt + 0.5)

	return func(yield func(TrajectoryPoint) bool) {
		pos, vel := startPos, startVel
		for i := 1; i <= steps; i++ {
			vel = vel.ClampLen(maxSpeed)
			pos = pos.Add(vel.Scale(subDt))

			if pos.X < -halfW {
				pos.X = -halfW
				vel.X = -vel.X
			} else if pos.X > halfW {
				pos.X = halfW
				vel.X = -vel.X
			}
			if pos.Y < -halfH {
				pos.Y = -halfH
				vel.Y = -vel.Y
			} else if pos.Y > halfH {
				pos.Y = halfH
				vel.Y = -vel.Y
			}

			if !yield(TrajectoryPoint{Time: float64(i) * subDt, Pos: pos, Vel: vel}) {
				return
			}
		}
	}
}

// Predict captures up to PredictSize samples of PredictSeq into a
// Trajectory stamped with the given simulation time and version. Pure
// with respect to live state.
func (w *World) Predict(id BodyID, start float64, horizon, subDt float64) *Trajectory {
	tr := &Trajectory{Start: start}
	for p := range w.PredictSeq(id, horizon, subDt) {
		tr.Points = append(tr.Points, p)
		if len(tr.Points) >= PredictSize {
			break
		}
	}
	return tr
}

// BestIntercept picks the control target from a trajectory: the sample
// maximizing (arrival time from now) − (distance / maxApproach), i.e.
// the latest point the consumer can still reach, preferring waiting
// over moving. Returns false when the trajectory is empty, every point
// is unreachable, or the consumer cannot move at all (zero-effect
// fallback, no steering).
func BestIntercept(tr *Trajectory, now float64, from Vec, maxApproach float64) (TrajectoryPoint, bool) {
	if tr == nil || maxApproach <= 0 {
		return TrajectoryPoint{}, false
	}
	best := TrajectoryPoint{}
	bestCost := 0.0
	found := false
	for _, p := range tr.Points {
		cost := (tr.Start + p.Time - now) - Distance(p.Pos, from)/maxApproach
		if cost < 0 {
			continue // cannot get there before the ball does
		}
		if !found || cost > bestCost {
			best, bestCost, found = p, cost, true
		}
	}
	return best, found
}
