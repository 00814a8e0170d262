package main

const (
	PlayerSensitivity = 8.0 // target-position error to desired-velocity gain

	// Assist engages only when the ball is dropping fast toward the
	// player and a reachable intercept sits close to the paddle.
	PlayerAssistRange          = 48.0
	PlayerAssistSpeed          = 1000.0
	PlayerAssistVerticalCutoff = -200.0
)

// Paddle is a player- or AI-controlled bat. Guard is the rest position
// it returns to when there is nothing to chase.
type Paddle struct {
	ID    BodyID
	Guard Vec
}

// NewPlayerPaddle registers the human paddle at its guard position
func NewPlayerPaddle(w *World) *Paddle {
	id := w.RegisterBody(BodyDefForRole(RolePlayer))
	guard := Vec{X: 0, Y: -ArenaHeight/2 + 160}
	w.AttachMotion(id, guard, Vec{})
	return &Paddle{ID: id, Guard: guard}
}

// NewEnemyPaddle registers the AI paddle at its guard position
func NewEnemyPaddle(w *World) *Paddle {
	id := w.RegisterBody(BodyDefForRole(RoleEnemy))
	guard := Vec{X: 0, Y: ArenaHeight/2 - 160}
	w.AttachMotion(id, guard, Vec{})
	return &Paddle{ID: id, Guard: guard}
}

// Control converts a pointer target into the desired velocity the
// integrator damps toward. The error-proportional gain means the
// paddle eases in rather than snapping to the pointer.
func (p *Paddle) Control(w *World, target Vec) {
	b := w.Body(p.ID)
	if b == nil {
		return
	}
	want := target.Sub(b.Pos).Scale(PlayerSensitivity).ClampLen(b.MaxSpeed)
	w.SetTarget(p.ID, want)
}

// Assist nudges the player toward the forecast intercept when the ball
// is incoming fast and the intercept is nearly in reach. It overrides
// the horizontal control component only; vertical stays the player's.
func (p *Paddle) Assist(w *World, tr *Trajectory, now float64) bool {
	b := w.Body(p.ID)
	if b == nil || tr == nil || tr.Stale(now) {
		return false
	}

	point, ok := BestIntercept(tr, now, b.Pos, PlayerAssistSpeed)
	if !ok || point.Vel.Y > PlayerAssistVerticalCutoff {
		return false
	}
	dx := point.Pos.X - b.Pos.X
	if abs(dx) > PlayerAssistRange {
		return false
	}

	t := b.Target
	t.X = Clamp(dx*PlayerSensitivity, -PlayerAssistSpeed, PlayerAssistSpeed)
	w.SetTarget(p.ID, t)
	return true
}
