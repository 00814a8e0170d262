package main

// Fixed cadences for the simulation. Supplied once at startup and
// immutable for the process lifetime.
const (
	PhysicsTimeStep = 1.0 / 180.0 // fixed physics step, seconds
	PredictTimeStep = 0.01        // predictor sub-step, seconds
	AITimeStep      = 0.1         // AI / assist decision cadence, seconds
	PredictSize     = 100         // samples per trajectory
)

// Arena and body dimensions
const (
	ArenaWidth  = 750.0
	ArenaHeight = 1000.0

	PaddleWidth  = 96.0
	PaddleHeight = 16.0
	BallSize     = 20.0

	BoundaryThickness = 32.0
)

// Per-role motion tuning
const (
	PlayerMaxSpeed = 2000.0
	PlayerDamp     = 20.0

	EnemyMinSpeed    = 500.0
	EnemyMaxSpeed    = 2000.0
	EnemyNormalSpeed = 1250.0
	EnemyDamp        = 20.0

	BallMaxSpeed = 3000.0
)

// Role identifies the kind of body being registered
type Role int

const (
	RolePlayer Role = 0
	RoleEnemy  Role = 1
	RoleBall   Role = 2
)

// RoleDef holds the physical stats for a role
type RoleDef struct {
	W, H        float64
	Mass        float64
	Restitution float64
	Friction    float64
	MaxSpeed    float64
	DampRate    float64
}

var RoleDefs = [3]RoleDef{
	// Player paddle: heavy so it drives the ball rather than recoiling
	{
		W: PaddleWidth, H: PaddleHeight, Mass: 3.0,
		Restitution: 1.0, Friction: 1.0,
		MaxSpeed: PlayerMaxSpeed, DampRate: PlayerDamp,
	},
	// Enemy paddle
	{
		W: PaddleWidth, H: PaddleHeight, Mass: 3.0,
		Restitution: 1.0, Friction: 1.0,
		MaxSpeed: EnemyMaxSpeed, DampRate: EnemyDamp,
	},
	// Ball: light, lively, keeps speed through bounces
	{
		W: BallSize, H: BallSize, Mass: 1.0,
		Restitution: 1.0, Friction: 0.5,
		MaxSpeed: BallMaxSpeed, DampRate: 0,
	},
}

// BodyDefForRole returns a ready-to-register BodyDef for the role,
// with layer/mask wired so paddles and obstacles only ever collide
// with the ball.
func BodyDefForRole(role Role) BodyDef {
	if role < 0 || int(role) >= len(RoleDefs) {
		role = RoleBall
	}
	d := RoleDefs[role]
	def := BodyDef{
		W: d.W, H: d.H, Mass: d.Mass,
		Restitution: d.Restitution, Friction: d.Friction,
		MaxSpeed: d.MaxSpeed, DampRate: d.DampRate,
	}
	switch role {
	case RolePlayer:
		def.Layer = LayerPlayer
		def.Mask = LayerBall
	case RoleEnemy:
		def.Layer = LayerEnemy
		def.Mask = LayerBall
	default:
		def.Layer = LayerBall
		def.Mask = LayerPlayer | LayerEnemy | LayerBoundary | LayerSeparator
	}
	return def
}

// BoundaryDef returns a BodyDef for an immovable arena boundary
func BoundaryDef(w, h, restitution, friction float64) BodyDef {
	return BodyDef{
		Layer: LayerBoundary, Mask: LayerBall,
		W: w, H: h,
		Mass:        0, // immovable
		Restitution: restitution,
		Friction:    friction,
	}
}

// SeparatorDef returns a BodyDef for one mid-arena slit block
func SeparatorDef(w, h float64) BodyDef {
	return BodyDef{
		Layer: LayerSeparator, Mask: LayerBall,
		W: w, H: h,
		Mass:        0, // immovable for the resolver, still steerable kinematically
		Restitution: 0.9,
		Friction:    0.5,
		MaxSpeed:    SlitBlockSpeed,
		DampRate:    SlitBlockDamp,
	}
}
