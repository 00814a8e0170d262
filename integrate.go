package main

// integrate advances every active body by one fixed physics step:
// velocity is damped toward the control target, clamped to the body's
// per-role cap, then position advances by velocity.
func (w *World) integrate(dt float64) {
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.active {
			continue
		}
		if b.DampRate > 0 {
			b.Vel = DampVec(b.Vel, b.Target, b.DampRate, dt)
		}
		b.Vel = b.Vel.ClampLen(b.MaxSpeed)
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	}
}

// FixedStepper converts variable frame durations into a whole number of
// fixed physics steps, carrying the remainder forward. Two runs fed the
// same frame times execute the same step sequence regardless of how the
// frames were sliced.
type FixedStepper struct {
	StepDt float64
	acc    float64
}

// Advance adds frame seconds to the accumulator and returns how many
// fixed steps to execute now.
func (s *FixedStepper) Advance(frame float64) int {
	if frame < 0 {
		return 0
	}
	s.acc += frame
	n := 0
	for s.acc >= s.StepDt {
		s.acc -= s.StepDt
		n++
	}
	return n
}

// Pending returns the carried remainder, for interpolation by render layers
func (s *FixedStepper) Pending() float64 {
	return s.acc
}
