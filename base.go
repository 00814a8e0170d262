package main

const (
	EnemyBaseFullHP     = 40000.0
	EnemyBaseHealRate   = 400.0 // HP/s while unharassed
	EnemyBaseHealGrace  = 3.0   // seconds since last hit before healing resumes
	MaxDamage           = 2000.0
	PlayerBaseBallCount = 3
)

// EnemyBase is the top boundary the player attacks. Ball impacts drain
// HP proportional to momentum; it slowly regenerates when left alone.
type EnemyBase struct {
	HP        float64
	MaxHP     float64
	lastHitAt float64
}

func NewEnemyBase() *EnemyBase {
	return &EnemyBase{HP: EnemyBaseFullHP, MaxHP: EnemyBaseFullHP}
}

// Hit applies one ball impact: damage = min(hp, speed·mass, MaxDamage).
// Returns the damage dealt and whether the base was destroyed.
func (eb *EnemyBase) Hit(speed, mass, now float64) (float64, bool) {
	damage := min(eb.HP, min(speed*mass, MaxDamage))
	eb.HP -= damage
	eb.lastHitAt = now
	return damage, eb.HP <= 0
}

// Heal regenerates HP after the grace period. Returns the amount
// healed this call, 0 when suppressed or already full.
func (eb *EnemyBase) Heal(dt, now float64) float64 {
	if eb.HP <= 0 || eb.HP >= eb.MaxHP || now-eb.lastHitAt < EnemyBaseHealGrace {
		return 0
	}
	healed := min(EnemyBaseHealRate*dt, eb.MaxHP-eb.HP)
	eb.HP += healed
	return healed
}

// PlayerBase is the bottom boundary the player defends. Each miss
// spends one ball; losing with none left ends the match.
type PlayerBase struct {
	BallCount int
}

func NewPlayerBase() *PlayerBase {
	return &PlayerBase{BallCount: PlayerBaseBallCount}
}

// Miss consumes a ball and reports whether the match is lost
func (pb *PlayerBase) Miss() bool {
	if pb.BallCount == 0 {
		return true
	}
	pb.BallCount--
	return false
}
