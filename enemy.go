package main

// Enemy AI tuning. The enemy paddle moves on the coarse AI cadence
// using the shared trajectory forecast, never the live ball state
// between forecasts.
const (
	EnemyBrakeDistance      = 96.0
	EnemyHitRangeVertical   = 144.0
	EnemyHitRangeHorizontal = 144.0
	EnemyHitSpeedCutoff     = 0.0 // strike only while the ball still approaches
)

// Enemy drives the AI paddle. It owns no physics state beyond the
// paddle's body id; all decisions run off the trajectory recomputed on
// the AI cadence.
type Enemy struct {
	Paddle *Paddle
}

func NewEnemy(w *World) *Enemy {
	return &Enemy{Paddle: NewEnemyPaddle(w)}
}

// Control picks the enemy's desired velocity for this AI tick.
//
// Close fast balls moving toward the enemy trigger a strike: charge the
// ball at full speed to smash it back. Otherwise the enemy tracks the
// latest reachable intercept from the forecast, easing off inside the
// brake distance, and drifts home when the forecast offers nothing on
// its half.
func (e *Enemy) Control(w *World, ball *Ball, tr *Trajectory, now float64) {
	pb := w.Body(e.Paddle.ID)
	if pb == nil {
		return
	}

	if bb := w.Body(ball.ID); bb != nil && w.Active(ball.ID) {
		dx := bb.Pos.X - pb.Pos.X
		dy := bb.Pos.Y - pb.Pos.Y
		if abs(dx) < EnemyHitRangeHorizontal && abs(dy) < EnemyHitRangeVertical &&
			bb.Vel.Y >= EnemyHitSpeedCutoff {
			w.SetTarget(e.Paddle.ID, bb.Pos.Sub(pb.Pos).Normalized().Scale(EnemyMaxSpeed))
			return
		}
	}

	target := e.Paddle.Guard
	speed := EnemyMinSpeed

	if tr != nil && !tr.Stale(now) {
		if point, ok := BestIntercept(tr, now, pb.Pos, EnemyNormalSpeed); ok && point.Pos.Y > 0 {
			target = Vec{X: point.Pos.X, Y: e.Paddle.Guard.Y}
			speed = EnemyNormalSpeed
		}
	}

	to := target.Sub(pb.Pos)
	dist := to.Len()
	if dist < 1e-6 {
		w.SetTarget(e.Paddle.ID, Vec{})
		return
	}
	if dist < EnemyBrakeDistance {
		// Ease in near the target so the paddle settles without jitter
		speed = Clamp(speed*dist/EnemyBrakeDistance, EnemyMinSpeed, EnemyMaxSpeed)
	}
	w.SetTarget(e.Paddle.ID, to.Normalized().Scale(speed))
}
