package main

import "math"

const (
	BallLaunchSpeed = 1000.0
	BallLaunchDelay = 1.0 // seconds parked before (re)launch
)

// Ball tracks the single game ball: its physics body, the serve
// countdown while parked, and the latest trajectory forecast.
type Ball struct {
	ID      BodyID
	LaunchT float64 // countdown until serve; only ticks while parked
	Served  bool
	Traj    *Trajectory
}

// NewBall registers a ball body and parks it at the origin
func NewBall(w *World) *Ball {
	id := w.RegisterBody(BodyDefForRole(RoleBall))
	return &Ball{ID: id, LaunchT: BallLaunchDelay}
}

// Update ticks the serve countdown and launches the ball when it
// expires. Returns true on the tick the ball was served.
func (bl *Ball) Update(w *World, dt float64, towardPlayer bool, spread float64) bool {
	if bl.Served {
		return false
	}
	bl.LaunchT -= dt
	if bl.LaunchT > 0 {
		return false
	}

	dir := 1.0
	if towardPlayer {
		dir = -1.0
	}
	angle := (spread - 0.5) * math.Pi / 4 // up to ±22.5° off vertical
	vel := Vec{
		X: BallLaunchSpeed * math.Sin(angle),
		Y: BallLaunchSpeed * math.Cos(angle) * dir,
	}
	w.AttachMotion(bl.ID, Vec{}, vel)
	bl.Served = true
	return true
}

// Park detaches the ball from simulation and restarts the serve
// countdown. Its stale trajectory is dropped rather than patched.
func (bl *Ball) Park(w *World) {
	w.DetachMotion(bl.ID)
	bl.Served = false
	bl.LaunchT = BallLaunchDelay
	bl.Traj = nil
}

// OutOfArena reports whether the ball escaped the playfield; tunneling
// through a boundary is rare under the speed cap but must not leak a
// live ball.
func (bl *Ball) OutOfArena(w *World) bool {
	b := w.Body(bl.ID)
	if b == nil || !w.Active(bl.ID) {
		return false
	}
	a := w.Arena()
	margin := 2 * BoundaryThickness
	return b.Pos.X < -a.W/2-margin || b.Pos.X > a.W/2+margin ||
		b.Pos.Y < -a.H/2-margin || b.Pos.Y > a.H/2+margin
}
