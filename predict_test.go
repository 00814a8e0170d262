package main

import (
	"math"
	"testing"
)

func TestPredictReflectsAtArenaBounds(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	w.AttachMotion(ball, Vec{}, Vec{X: 0, Y: -800})

	tr := w.Predict(ball, 0, 1.0, PredictTimeStep)
	if len(tr.Points) == 0 {
		t.Fatal("expected trajectory points")
	}

	// The ball crosses y=-500 at t=0.625; the 0.63 sample clamps to the
	// bound with the vertical velocity flipped
	var bounce TrajectoryPoint
	found := false
	for _, p := range tr.Points {
		if math.Abs(p.Time-0.63) < 1e-6 {
			bounce = p
			found = true
		}
	}
	if !found {
		t.Fatal("no sample at t=0.63")
	}
	if math.Abs(bounce.Pos.Y-(-500)) > 1e-6 {
		t.Errorf("expected y=-500 at the bounce sample, got %f", bounce.Pos.Y)
	}
	if bounce.Vel.Y != 800 {
		t.Errorf("vertical velocity should flip to 800, got %f", bounce.Vel.Y)
	}

	// Every sample stays inside the arena
	for _, p := range tr.Points {
		if !w.Arena().Contains(p.Pos) {
			t.Fatalf("sample at t=%f escaped the arena: %+v", p.Time, p.Pos)
		}
	}
}

func TestPredictCapsSamples(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	w.AttachMotion(ball, Vec{}, Vec{X: 100, Y: 100})

	// A long horizon still yields at most PredictSize samples
	tr := w.Predict(ball, 0, 100, PredictTimeStep)
	if len(tr.Points) != PredictSize {
		t.Errorf("expected %d samples, got %d", PredictSize, len(tr.Points))
	}
}

// Sample times are exact multiples of the sub-step: no accumulated
// rounding over a full-length forecast.
func TestPredictSampleTimesExact(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	w.AttachMotion(ball, Vec{}, Vec{X: 100, Y: 100})

	tr := w.Predict(ball, 0, float64(PredictSize)*PredictTimeStep, PredictTimeStep)
	if len(tr.Points) != PredictSize {
		t.Fatalf("expected %d samples, got %d", PredictSize, len(tr.Points))
	}
	for i, p := range tr.Points {
		want := float64(i+1) * PredictTimeStep
		if p.Time != want {
			t.Fatalf("sample %d at t=%v, want exactly %v", i, p.Time, want)
		}
	}
}

func TestPredictDoesNotMutateBody(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	w.AttachMotion(ball, Vec{X: 10, Y: 20}, Vec{X: 0, Y: -800})

	_ = w.Predict(ball, 0, 1.0, PredictTimeStep)

	b := w.Body(ball)
	if b.Pos.X != 10 || b.Pos.Y != 20 || b.Vel.Y != -800 {
		t.Error("prediction must not touch the live body")
	}
}

func TestPredictSeqRestartable(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	w.AttachMotion(ball, Vec{}, Vec{X: 300, Y: -400})

	seq := w.PredictSeq(ball, 0.5, PredictTimeStep)

	var first, second []TrajectoryPoint
	for p := range seq {
		first = append(first, p)
	}
	for p := range seq {
		second = append(second, p)
	}

	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("restarted sequence length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("restarted sequence diverges at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPredictInactiveBodyEmpty(t *testing.T) {
	w := testWorld()
	ball := w.RegisterBody(BodyDefForRole(RoleBall))
	// Parked ball: no forecast
	tr := w.Predict(ball, 0, 1.0, PredictTimeStep)
	if len(tr.Points) != 0 {
		t.Errorf("inactive body should yield no samples, got %d", len(tr.Points))
	}
}

func TestTrajectoryStale(t *testing.T) {
	tr := &Trajectory{Start: 10}
	if tr.Stale(10 + 2*AITimeStep) {
		t.Error("trajectory at exactly two cadences should not be stale")
	}
	if !tr.Stale(10 + 2*AITimeStep + 0.01) {
		t.Error("trajectory older than two cadences should be stale")
	}
}

func TestBestInterceptPrefersWaiting(t *testing.T) {
	tr := &Trajectory{
		Start: 0,
		Points: []TrajectoryPoint{
			{Time: 0.1, Pos: Vec{X: 0, Y: 0}},
			{Time: 0.5, Pos: Vec{X: 10, Y: 0}},
		},
	}
	// Both reachable from the origin; the later point has more slack
	p, ok := BestIntercept(tr, 0, Vec{}, 1000)
	if !ok {
		t.Fatal("expected an intercept")
	}
	if p.Time != 0.5 {
		t.Errorf("expected the later point, got t=%f", p.Time)
	}
}

func TestBestInterceptSkipsUnreachable(t *testing.T) {
	tr := &Trajectory{
		Start: 0,
		Points: []TrajectoryPoint{
			{Time: 0.1, Pos: Vec{X: 1000, Y: 0}}, // needs speed 10000
			{Time: 0.9, Pos: Vec{X: 50, Y: 0}},
		},
	}
	p, ok := BestIntercept(tr, 0, Vec{}, 100)
	if !ok {
		t.Fatal("expected the reachable point")
	}
	if p.Time != 0.9 {
		t.Errorf("expected t=0.9, got t=%f", p.Time)
	}
}

func TestBestInterceptAllUnreachable(t *testing.T) {
	tr := &Trajectory{
		Start: 0,
		Points: []TrajectoryPoint{
			{Time: 0.01, Pos: Vec{X: 500, Y: 500}},
		},
	}
	if _, ok := BestIntercept(tr, 0, Vec{}, 10); ok {
		t.Error("expected no intercept when every point is unreachable")
	}
}

func TestBestInterceptDegenerateInputs(t *testing.T) {
	if _, ok := BestIntercept(nil, 0, Vec{}, 100); ok {
		t.Error("nil trajectory should yield no intercept")
	}
	tr := &Trajectory{Points: []TrajectoryPoint{{Time: 1, Pos: Vec{X: 1, Y: 1}}}}
	if _, ok := BestIntercept(tr, 0, Vec{}, 0); ok {
		t.Error("zero approach speed should yield no intercept")
	}
}
