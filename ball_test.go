package main

import (
	"math"
	"testing"
)

func TestBallServesAfterDelay(t *testing.T) {
	w := testWorld()
	ball := NewBall(w)

	if ball.Update(w, BallLaunchDelay/2, true, 0.5) {
		t.Error("ball should not serve before the delay expires")
	}
	if w.Active(ball.ID) {
		t.Error("parked ball should be inactive")
	}

	if !ball.Update(w, BallLaunchDelay/2, true, 0.5) {
		t.Error("ball should serve once the delay expires")
	}
	if !w.Active(ball.ID) {
		t.Error("served ball should be active")
	}

	b := w.Body(ball.ID)
	if b.Vel.Y >= 0 {
		t.Errorf("serve toward the player should move down, vy=%f", b.Vel.Y)
	}
	if math.Abs(b.Vel.Len()-BallLaunchSpeed) > 1e-6 {
		t.Errorf("serve speed = %f, want %f", b.Vel.Len(), BallLaunchSpeed)
	}
}

func TestBallServeSpread(t *testing.T) {
	w := testWorld()
	ball := NewBall(w)
	ball.Update(w, BallLaunchDelay, false, 1.0)

	b := w.Body(ball.ID)
	if b.Vel.X <= 0 {
		t.Errorf("spread 1.0 should angle right, vx=%f", b.Vel.X)
	}
	if b.Vel.Y <= 0 {
		t.Errorf("serve toward the enemy should move up, vy=%f", b.Vel.Y)
	}
}

func TestBallServedOnlyOnce(t *testing.T) {
	w := testWorld()
	ball := NewBall(w)
	ball.Update(w, BallLaunchDelay, true, 0.5)

	if ball.Update(w, 10, true, 0.5) {
		t.Error("a served ball must not serve again")
	}
}

func TestBallPark(t *testing.T) {
	w := testWorld()
	ball := NewBall(w)
	ball.Update(w, BallLaunchDelay, true, 0.5)
	ball.Traj = &Trajectory{Start: 1}

	ball.Park(w)

	if w.Active(ball.ID) {
		t.Error("parked ball should be inactive")
	}
	if ball.Served {
		t.Error("parked ball should be unserved")
	}
	if ball.LaunchT != BallLaunchDelay {
		t.Errorf("serve countdown should reset, got %f", ball.LaunchT)
	}
	if ball.Traj != nil {
		t.Error("stale trajectory should be dropped on park")
	}
}

func TestBallOutOfArena(t *testing.T) {
	w := testWorld()
	ball := NewBall(w)
	ball.Update(w, BallLaunchDelay, true, 0.5)

	if ball.OutOfArena(w) {
		t.Error("ball at the origin is in the arena")
	}

	w.Body(ball.ID).Pos = Vec{X: 0, Y: -ArenaHeight/2 - 3*BoundaryThickness}
	if !ball.OutOfArena(w) {
		t.Error("ball far past the boundary should be out")
	}

	// A parked ball is never out
	ball.Park(w)
	if ball.OutOfArena(w) {
		t.Error("parked ball cannot be out of the arena")
	}
}
