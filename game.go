package main

import (
	"crypto/rand"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	FrameRate      = 60 // game loop frames per second
	BroadcastRate  = 30 // state broadcasts per second
	FrameDuration  = time.Second / FrameRate
	BroadcastEvery = FrameRate / BroadcastRate
)

// App-level event cooldowns. The detector re-emits the same contact
// every step a pair overlaps; per-pair cooldowns keep the outgoing
// bounce/hit/miss events from machine-gunning.
const (
	BounceCooldown = 0.1
	HitCooldown    = 0.1
	MissCooldown   = 0.5

	MinBounceSpeed = 500.0 // relative speed below which no bounce event fires
	MaxBounceSpeed = 2500.0
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// pairKey identifies a body pair independent of order
type pairKey struct {
	lo, hi BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// MatchStats summarizes a finished match for persistence
type MatchStats struct {
	Won      bool
	Hits     int
	Misses   int
	Bounces  int
	Damage   float64
	Duration float64
}

// Game holds the state for one game session: the physics world, the
// single human paddle, the AI opponent, and the spectator fan-out.
type Game struct {
	mu    sync.RWMutex
	world *World
	match MatchState

	player     *Paddle
	enemy      *Enemy
	ball       *Ball
	enemyBase  *EnemyBase
	playerBase *PlayerBase
	slits      *Slits

	topWall, bottomWall BodyID
	leftWall, rightWall BodyID

	clients    map[string]Broadcaster // clientID -> connection
	controller string                 // clientID holding the paddle, "" = vacant
	input      ClientInput

	stepper      FixedStepper
	aiAcc        float64
	clock        float64 // simulation seconds
	tick         uint64
	predictCycle uint64

	cooldowns   map[pairKey]float64 // pair -> last app-event emission time
	hits        int
	misses      int
	bounces     int
	damageDealt float64
	serveToward bool   // next serve goes toward the player
	randState   uint64 // per-session xorshift, seeded in NewGame

	running  bool
	stop     chan struct{}
	onFinish func(stats MatchStats)
}

// NewGame creates a session for the given match config
func NewGame(config MatchConfig) *Game {
	w := NewWorld(Arena{W: config.ArenaW, H: config.ArenaH})

	g := &Game{
		world:       w,
		match:       NewMatchState(config),
		clients:     make(map[string]Broadcaster),
		cooldowns:   make(map[pairKey]float64),
		stepper:     FixedStepper{StepDt: PhysicsTimeStep},
		stop:        make(chan struct{}),
		serveToward: true,
		randState:   randSeed(),
	}

	g.player = NewPlayerPaddle(w)
	g.enemy = NewEnemy(w)
	g.ball = NewBall(w)
	g.enemyBase = NewEnemyBase()
	g.enemyBase.HP = config.EnemyBaseHP
	g.enemyBase.MaxHP = config.EnemyBaseHP
	g.playerBase = NewPlayerBase()
	g.playerBase.BallCount = config.BallCount

	g.makeArena(config)
	if config.Slits {
		g.slits = NewSlits(w)
	}
	return g
}

// makeArena registers the four immovable boundaries. They carry motion
// (zero velocity) so the detector sees them; the resolver never moves
// them.
func (g *Game) makeArena(config MatchConfig) {
	halfW, halfH := config.ArenaW/2, config.ArenaH/2
	t := BoundaryThickness

	// Side walls are perfectly elastic so rallies keep their energy;
	// the bases bleed a little off each impact.
	g.topWall = g.world.RegisterBody(BoundaryDef(config.ArenaW+2*t, t, 0.9, 0))
	g.bottomWall = g.world.RegisterBody(BoundaryDef(config.ArenaW+2*t, t, 0.9, 0.5))
	g.leftWall = g.world.RegisterBody(BoundaryDef(t, config.ArenaH+2*t, 1.0, 0))
	g.rightWall = g.world.RegisterBody(BoundaryDef(t, config.ArenaH+2*t, 1.0, 0))

	g.world.AttachMotion(g.topWall, Vec{X: 0, Y: halfH + t/2}, Vec{})
	g.world.AttachMotion(g.bottomWall, Vec{X: 0, Y: -halfH - t/2}, Vec{})
	g.world.AttachMotion(g.leftWall, Vec{X: -halfW - t/2, Y: 0}, Vec{})
	g.world.AttachMotion(g.rightWall, Vec{X: halfW + t/2, Y: 0}, Vec{})
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			frame := now.Sub(last).Seconds()
			last = now
			g.update(frame)
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddClient attaches a connection. The first joiner takes the paddle;
// everyone after spectates. Returns true if the client controls.
func (g *Game) AddClient(clientID string, b Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[clientID] = b
	if g.controller == "" {
		g.controller = clientID
		g.match.Begin()
		return true
	}
	return false
}

// RemoveClient detaches a connection, vacating the paddle if held
func (g *Game) RemoveClient(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, clientID)
	if g.controller == clientID {
		g.controller = ""
	}
}

// ClientCount returns the number of attached connections
func (g *Game) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// SetOnFinish installs the persistence hook called once per finished match
func (g *Game) SetOnFinish(fn func(MatchStats)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinish = fn
}

// HandleInput stores the controller's paddle input for the next frame
func (g *Game) HandleInput(clientID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if clientID != g.controller {
		return
	}
	input.TX = Clamp(input.TX, -g.match.Config.ArenaW/2, g.match.Config.ArenaW/2)
	input.TY = Clamp(input.TY, -g.match.Config.ArenaH/2, 0) // player stays on own half
	g.input = input
}

// Ready starts the countdown from the lobby
func (g *Game) Ready(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if clientID == g.controller {
		g.match.Begin()
	}
}

// update runs one frame: phase timers, a whole number of fixed physics
// steps from the accumulator, AI on its own cadence, then broadcast.
func (g *Game) update(frame float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++

	if g.match.Update(frame) {
		g.resetMatch()
	}

	if g.match.Phase == PhasePlaying {
		if g.ball.Update(g.world, frame, g.serveToward, g.randFloat()) {
			g.serveToward = !g.serveToward
		}
		if g.slits != nil {
			g.slits.Update(g.world, frame, func(n int) int { return int(g.randFloat() * float64(n)) })
		}

		g.player.Control(g.world, Vec{X: g.input.TX, Y: g.input.TY})

		steps := g.stepper.Advance(frame)
		for i := 0; i < steps; i++ {
			events := g.world.Step(PhysicsTimeStep)
			g.clock += PhysicsTimeStep
			g.handleEvents(events)
		}

		if healed := g.enemyBase.Heal(frame, g.clock); healed > 0 && g.tick%uint64(FrameRate) == 0 {
			g.broadcastMsg(Envelope{T: MsgHeal, Data: HealMsg{Amount: healed, HP: g.enemyBase.HP}})
		}

		g.aiAcc += frame
		for g.aiAcc >= AITimeStep {
			g.aiAcc -= AITimeStep
			g.aiTick()
		}

		if g.ball.OutOfArena(g.world) {
			g.ball.Park(g.world)
		}
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// aiTick runs the slow-cadence loop: regenerate the forecast, then let
// the enemy controller and the player assist consume it. Consumers see
// only the trajectory from this cycle, never the live mid-step state.
func (g *Game) aiTick() {
	now := g.clock
	if g.world.Active(g.ball.ID) {
		horizon := float64(PredictSize) * PredictTimeStep
		tr := g.world.Predict(g.ball.ID, now, horizon, PredictTimeStep)
		g.predictCycle++
		tr.Version = g.predictCycle
		g.ball.Traj = tr
	}

	g.enemy.Control(g.world, g.ball, g.ball.Traj, now)

	if g.input.Assist {
		g.player.Assist(g.world, g.ball.Traj, now)
	}
}

// handleEvents turns raw collision events into app-level events,
// applying per-pair cooldowns. Every pair here involves the ball;
// the collision masks admit nothing else.
func (g *Game) handleEvents(events []CollisionEvent) {
	for _, ev := range events {
		other := ev.A
		if other == g.ball.ID {
			other = ev.B
		} else if ev.B != g.ball.ID {
			continue
		}

		switch other {
		case g.topWall:
			g.onBaseHit(ev)
		case g.bottomWall:
			g.onMiss(ev)
		default:
			g.onBounce(ev)
		}
	}
}

// debounced consults and updates the per-pair cooldown map
func (g *Game) debounced(ev CollisionEvent, cooldown float64) bool {
	key := makePairKey(ev.A, ev.B)
	if last, ok := g.cooldowns[key]; ok && g.clock-last < cooldown {
		return true
	}
	g.cooldowns[key] = g.clock
	return false
}

func (g *Game) onBounce(ev CollisionEvent) {
	if g.debounced(ev, BounceCooldown) || ev.ApproachSpeed < MinBounceSpeed {
		return
	}
	g.bounces++
	g.broadcastMsg(Envelope{T: MsgBounce, Data: BounceMsg{
		X:         round1(ev.Location.X),
		Y:         round1(ev.Location.Y),
		Speed:     round1(ev.ApproachSpeed),
		Intensity: Clamp(Intermediate(ev.ApproachSpeed, MinBounceSpeed, MaxBounceSpeed), 0, 1),
	}})
}

func (g *Game) onBaseHit(ev CollisionEvent) {
	if g.debounced(ev, HitCooldown) {
		return
	}
	ballBody := g.world.Body(g.ball.ID)
	if ballBody == nil {
		return
	}

	damage, destroyed := g.enemyBase.Hit(ev.ApproachSpeed, ballBody.Mass(), g.clock)
	g.hits++
	g.damageDealt += damage

	g.broadcastMsg(Envelope{T: MsgHit, Data: HitMsg{
		X: round1(ev.Location.X), Y: round1(ev.Location.Y),
		Damage: round1(damage), HP: round1(g.enemyBase.HP),
	}})

	if destroyed && g.match.Config.Mode == ModeBattle {
		g.ball.Park(g.world)
		g.finish(true)
	}
}

func (g *Game) onMiss(ev CollisionEvent) {
	if g.debounced(ev, MissCooldown) {
		return
	}
	g.misses++

	lost := false
	if g.match.Config.Mode == ModeBattle {
		lost = g.playerBase.Miss()
	}
	g.ball.Park(g.world)

	g.broadcastMsg(Envelope{T: MsgMiss, Data: MissMsg{
		X: round1(ev.Location.X), Y: round1(ev.Location.Y),
		BallsLeft: g.playerBase.BallCount,
	}})

	if lost {
		g.finish(false)
	}
}

// finish ends the match and fires the persistence hook once
func (g *Game) finish(won bool) {
	if g.match.Phase != PhasePlaying {
		return
	}
	stats := MatchStats{
		Won:      won,
		Hits:     g.hits,
		Misses:   g.misses,
		Bounces:  g.bounces,
		Damage:   g.damageDealt,
		Duration: g.match.Elapsed,
	}
	g.match.Finish(won)

	g.broadcastMsg(Envelope{T: MsgGameOver, Data: GameOverMsg{
		Won: won, Hits: stats.Hits, Misses: stats.Misses, Duration: round1(stats.Duration),
	}})

	if g.onFinish != nil {
		go g.onFinish(stats) // DB writes stay off the game loop
	}
}

// resetMatch returns the session to the lobby with fresh state
func (g *Game) resetMatch() {
	config := g.match.Config
	g.match = NewMatchState(config)
	g.enemyBase = NewEnemyBase()
	g.enemyBase.HP = config.EnemyBaseHP
	g.enemyBase.MaxHP = config.EnemyBaseHP
	g.playerBase = NewPlayerBase()
	g.playerBase.BallCount = config.BallCount
	g.hits, g.misses, g.bounces, g.damageDealt = 0, 0, 0, 0
	g.cooldowns = make(map[pairKey]float64)
	g.ball.Park(g.world)
	g.serveToward = true
	if g.controller != "" {
		g.match.Begin()
	}
}

// snapshot builds the broadcast state under the lock
func (g *Game) snapshot() GameState {
	state := GameState{
		Tick:      g.tick,
		Phase:     int(g.match.Phase),
		BaseHP:    round1(g.enemyBase.HP),
		BaseMaxHP: g.enemyBase.MaxHP,
		Balls:     g.playerBase.BallCount,
		Hits:      g.hits,
		Misses:    g.misses,
		Countdown: round1(g.match.CountdownT),
	}

	if b := g.world.Body(g.player.ID); b != nil {
		state.Player = PaddleState{X: round1(b.Pos.X), Y: round1(b.Pos.Y), VX: round1(b.Vel.X), VY: round1(b.Vel.Y)}
	}
	if b := g.world.Body(g.enemy.Paddle.ID); b != nil {
		state.Enemy = PaddleState{X: round1(b.Pos.X), Y: round1(b.Pos.Y), VX: round1(b.Vel.X), VY: round1(b.Vel.Y)}
	}
	if b := g.world.Body(g.ball.ID); b != nil {
		state.Ball = BallState{
			X: round1(b.Pos.X), Y: round1(b.Pos.Y),
			VX: round1(b.Vel.X), VY: round1(b.Vel.Y),
			Live:   g.world.Active(g.ball.ID),
			ServeT: round1(max(g.ball.LaunchT, 0)),
		}
	}
	if g.slits != nil {
		state.SlitGap = g.slits.Gap()
		for _, p := range g.slits.BlockPositions(g.world) {
			state.SlitX = append(state.SlitX, round1(p.X))
		}
	}

	// Share a thinned trajectory so clients can draw landing hints
	if tr := g.ball.Traj; tr != nil && !tr.Stale(g.clock) {
		for i := 0; i < len(tr.Points); i += 10 {
			p := tr.Points[i]
			state.Hint = append(state.Hint, PointState{T: round1(p.Time), X: round1(p.Pos.X), Y: round1(p.Pos.Y)})
		}
	}
	return state
}

// broadcastState sends the current snapshot to all clients as one
// msgpack binary frame, marshaled once.
func (g *Game) broadcastState() {
	data, err := msgpack.Marshal(g.snapshot())
	if err != nil {
		log.Printf("state marshal error: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON envelope to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

// randFloat returns a random float64 in [0, 1). Xorshift is plenty for
// serve spread and slit shuffling; crypto/rand only seeds it. The state
// lives on the Game so concurrent sessions never share it.
func (g *Game) randFloat() float64 {
	g.randState ^= g.randState << 13
	g.randState ^= g.randState >> 7
	g.randState ^= g.randState << 17
	if g.randState == 0 {
		g.randState = 1
	}
	return float64(g.randState%10000) / 10000.0
}

func randSeed() uint64 {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	var s uint64
	for i, v := range b {
		s |= uint64(v) << (uint(i) * 8)
	}
	if s == 0 {
		s = 1
	}
	return s
}
