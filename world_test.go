package main

import "testing"

// buildArena stands up a ball between two walls for stepping tests
func buildArena(w *World) (ball, top, bottom BodyID) {
	ball = w.RegisterBody(BodyDefForRole(RoleBall))
	top = w.RegisterBody(BoundaryDef(ArenaWidth, BoundaryThickness, 1.0, 0))
	bottom = w.RegisterBody(BoundaryDef(ArenaWidth, BoundaryThickness, 1.0, 0))
	w.AttachMotion(top, Vec{X: 0, Y: ArenaHeight/2 + BoundaryThickness/2}, Vec{})
	w.AttachMotion(bottom, Vec{X: 0, Y: -ArenaHeight/2 - BoundaryThickness/2}, Vec{})
	return
}

func TestStepDeterministic(t *testing.T) {
	run := func() []Vec {
		w := testWorld()
		ball, _, _ := buildArena(w)
		w.AttachMotion(ball, Vec{X: 37, Y: -11}, Vec{X: 450, Y: -900})

		var track []Vec
		for i := 0; i < 2000; i++ {
			w.Step(PhysicsTimeStep)
			track = append(track, w.Body(ball).Pos)
		}
		return track
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverge at step %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStepBallBouncesOffWall(t *testing.T) {
	w := testWorld()
	ball, _, _ := buildArena(w)
	// Drop straight at the bottom wall
	w.AttachMotion(ball, Vec{X: 0, Y: -480}, Vec{X: 0, Y: -900})

	bounced := false
	for i := 0; i < 400; i++ {
		events := w.Step(PhysicsTimeStep)
		if len(events) > 0 {
			bounced = true
		}
	}
	if !bounced {
		t.Fatal("expected a wall contact")
	}
	if w.Body(ball).Vel.Y <= 0 {
		t.Errorf("ball should travel up after the bounce, vy=%f", w.Body(ball).Vel.Y)
	}
}

func TestStepEventOrdering(t *testing.T) {
	w := testWorld()
	// Two balls each overlapping the same wall; events come out in id order
	b1 := w.RegisterBody(BodyDefForRole(RoleBall))
	b2 := w.RegisterBody(BodyDefForRole(RoleBall))
	wall := w.RegisterBody(BoundaryDef(ArenaWidth, BoundaryThickness, 1.0, 0))

	w.AttachMotion(wall, Vec{X: 0, Y: 0}, Vec{})
	w.AttachMotion(b1, Vec{X: -100, Y: 12}, Vec{})
	w.AttachMotion(b2, Vec{X: 100, Y: 12}, Vec{})

	events := w.Step(PhysicsTimeStep)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].A != b1 || events[1].A != b2 {
		t.Error("events should be ordered by body id")
	}
}
